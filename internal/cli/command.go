// Package cli implements the command-line interface for taskboard.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"taskboard/internal/ratelimit"
	"taskboard/internal/response"
)

// Exit codes. Scripts and agents branch on these instead of parsing
// stderr.
const (
	ExitOK          = 0
	ExitError       = 1
	ExitValidation  = 2
	ExitNotFound    = 3
	ExitRateLimited = 4
)

// IO handles command output.
type IO struct {
	out    io.Writer
	errOut io.Writer
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Println writes to stdout.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "taskboard" in help.
	// Examples: "show <boardId> [flags]", "add <title> [flags]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-26s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "taskboard <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: taskboard", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command. Returns exit code.
// Handles error printing internally for consistent output ordering.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)
			return ExitOK
		}
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)
		return ExitValidation
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)
		return exitCode(err)
	}

	return ExitOK
}

// exitCode maps service errors to the CLI's exit-code contract.
func exitCode(err error) int {
	var rlErr *ratelimit.Error
	if errors.As(err, &rlErr) {
		return ExitRateLimited
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case response.ErrCodeValidation, response.ErrCodeDependency, response.ErrCodeFormatMismatch:
			return ExitValidation
		case response.ErrCodeNotFound:
			return ExitNotFound
		case response.ErrCodeRateLimited, response.ErrCodeServerBusy:
			return ExitRateLimited
		}
	}

	return ExitError
}
