package vm

import "io"

// Option configures a VirtualMachine at construction, following the
// functional-options convention the rest of this codebase's ancestry
// uses for optional configuration.
type Option func(*VirtualMachine)

// WithStdout redirects Print/PrintLn/PrintTab/PrintEmptyLine output.
// Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(vm *VirtualMachine) { vm.stdout = w }
}

// WithStderr redirects the runtime error/call-stack trace rendered on
// RuntimeError/RuntimeAssertionFailed. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(vm *VirtualMachine) { vm.stderr = w }
}

// WithSourceFile sets the source file name whose hash seeds the call
// stack's synthetic (file_hash, main_hash, 1) entry (spec.md §4.5). The
// name itself is not printed in error traces.
func WithSourceFile(name string) Option {
	return func(vm *VirtualMachine) { vm.fileName = name }
}

// WithCodeAtLine supplies the 1-based source line lookup used to render
// the `   {source line}` portion of a call-stack trace frame.
func WithCodeAtLine(fn func(line int) string) Option {
	return func(vm *VirtualMachine) { vm.codeAtLine = fn }
}

// WithShowFullCallStack disables the 15-frame call-stack truncation,
// equivalent to a nonempty SHOW_FULL_CALLSTACK environment variable
// (spec.md §6).
func WithShowFullCallStack(show bool) Option {
	return func(vm *VirtualMachine) { vm.showFullCallStack = show }
}

// WithMaxCallStackFrames overrides the call-stack trace truncation depth
// (default 15). A value <= 0 keeps the default.
func WithMaxCallStackFrames(n int) Option {
	return func(vm *VirtualMachine) { vm.maxCallStackFrames = n }
}

// WithVerbose enables opcode-dispatch tracing through internal/rlog.
func WithVerbose(verbose bool) Option {
	return func(vm *VirtualMachine) { vm.verbose = verbose }
}

// WithColor forces (or disables) ANSI color on rendered error traces,
// overriding the isatty auto-detection New uses by default.
func WithColor(enabled bool) Option {
	return func(vm *VirtualMachine) { vm.color = enabled }
}
