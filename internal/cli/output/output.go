// Package output renders CLI messages, coloring them when the
// terminal supports it.
package output

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Renderer writes user-facing messages to stdout/stderr with optional
// color.
type Renderer struct {
	out     io.Writer
	err     io.Writer
	profile termenv.Profile
}

// NewRenderer detects the terminal's color profile for stderr
// messages.
func NewRenderer(out, err io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		err:     err,
		profile: termenv.ColorProfile(),
	}
}

// Printf writes a plain message to stdout.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Errorf writes an error message to stderr, in red when supported.
func (r *Renderer) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.profile != termenv.Ascii {
		msg = termenv.String(msg).Foreground(r.profile.Color("1")).String()
	}
	fmt.Fprintln(r.err, msg)
}

// Successf writes a success message to stdout, in green when
// supported.
func (r *Renderer) Successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.profile != termenv.Ascii {
		msg = termenv.String(msg).Foreground(r.profile.Color("2")).String()
	}
	fmt.Fprintln(r.out, msg)
}
