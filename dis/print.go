package dis

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Print writes lines as an aligned text table, one instruction per row,
// with columns OFFSET, OPCODE, OPERANDS, INFO.
func Print(w io.Writer, lines []Line) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tOPCODE\tOPERANDS\tINFO")
	for _, ln := range lines {
		operands := make([]string, len(ln.Operands))
		for i, o := range ln.Operands {
			operands[i] = fmt.Sprintf("%d", o)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", ln.Offset, ln.Op, strings.Join(operands, ","), ln.Info)
	}
	return tw.Flush()
}

// yamlLine is the YAML projection of Line: op.Code's own String() is used
// for the mnemonic rather than its numeric value, since a disassembly
// listing is meant to be read, not re-parsed.
type yamlLine struct {
	Offset   int     `yaml:"offset"`
	Opcode   string  `yaml:"opcode"`
	Operands []int64 `yaml:"operands,omitempty"`
	Info     string  `yaml:"info,omitempty"`
}

// PrintYAML writes lines as a YAML sequence, for `grace dis --format=yaml`.
func PrintYAML(w io.Writer, lines []Line) error {
	out := make([]yamlLine, len(lines))
	for i, ln := range lines {
		out[i] = yamlLine{
			Offset:   ln.Offset,
			Opcode:   ln.Op.String(),
			Operands: ln.Operands,
			Info:     ln.Info,
		}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(out)
}
