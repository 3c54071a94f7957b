package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestRunFileExecutesScript(t *testing.T) {
	v := viper.New()
	out := captureStdout(t, func() {
		err := runFile(v, "testdata/hello.gr", nil)
		require.NoError(t, err)
	})
	require.Equal(t, "3\n", out)
}

func TestRunFileMissingPath(t *testing.T) {
	v := viper.New()
	err := runFile(v, "testdata/does-not-exist.gr", nil)
	require.Error(t, err)
}
