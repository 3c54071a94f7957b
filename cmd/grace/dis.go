package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lgtm-migrator/grace/compiler"
	"github.com/lgtm-migrator/grace/dis"
	"github.com/lgtm-migrator/grace/internal/lexer"
)

func newDisCommand() *cobra.Command {
	var funcName string
	var format string

	cmd := &cobra.Command{
		Use:           "dis FILE",
		Short:         "Disassemble compiled Grace bytecode",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDis(args[0], funcName, format)
		},
	}
	cmd.Flags().StringVar(&funcName, "func", "main", "function to disassemble")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return cmd
}

func runDis(path, funcName, format string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	lx := lexer.New(string(src))
	c := compiler.New(lx, false, false)
	ft, compileErr := c.Compile()
	for _, d := range c.Diagnostics() {
		fmt.Fprint(os.Stderr, d.Render(path, lx.CodeAtLine))
	}
	if compileErr != nil {
		return fmt.Errorf("compilation failed: %w", compileErr)
	}

	fn, ok := ft.LookupName(funcName)
	if !ok {
		return fmt.Errorf("no function named %q", funcName)
	}

	lines, err := dis.Disassemble(fn)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		return dis.PrintYAML(os.Stdout, lines)
	case "text", "":
		return dis.Print(os.Stdout, lines)
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
}
