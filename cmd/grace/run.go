package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/lgtm-migrator/grace/compiler"
	"github.com/lgtm-migrator/grace/internal/lexer"
	"github.com/lgtm-migrator/grace/value"
	"github.com/lgtm-migrator/grace/vm"
)

// runFile compiles path and executes its main with scriptArgs passed
// through as String values (spec.md §6: "Arguments after the first .gr
// file are passed to the program's main").
func runFile(v *viper.Viper, path string, scriptArgs []string) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	lx := lexer.New(string(src))
	c := compiler.New(lx, cfg.WarningsAsError, cfg.Verbose)
	ft, err := c.Compile()
	for _, d := range c.Diagnostics() {
		fmt.Fprint(os.Stderr, d.Render(path, lx.CodeAtLine))
	}
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	showFullCallStack := cfg.ShowFullCallStack || os.Getenv("SHOW_FULL_CALLSTACK") != ""

	m, err := vm.New(ft,
		vm.WithSourceFile(path),
		vm.WithCodeAtLine(lx.CodeAtLine),
		vm.WithShowFullCallStack(showFullCallStack),
		vm.WithMaxCallStackFrames(cfg.MaxCallStackFrames),
		vm.WithVerbose(cfg.Verbose),
		vm.WithColor(!color.NoColor),
	)
	if err != nil {
		return fmt.Errorf("linking: %w", err)
	}

	args := make([]value.Value, len(scriptArgs))
	for i, a := range scriptArgs {
		args[i] = value.String(a)
	}

	result, runErr := m.Run(args)
	if runErr != nil {
		os.Exit(exitCodeFor(result))
	}
	return nil
}

func exitCodeFor(result vm.RunResult) int {
	if result == vm.RuntimeOk {
		return 0
	}
	return 1
}
