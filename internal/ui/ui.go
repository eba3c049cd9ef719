package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type UI struct {
	Out          io.Writer
	Err          io.Writer
	Output       *termenv.Output
	ErrOutput    *termenv.Output
	ColorEnabled bool
}

func New(out io.Writer, err io.Writer, mode ColorMode, disableColor bool) *UI {
	output := termenv.NewOutput(out)
	errOutput := termenv.NewOutput(err)

	colorEnabled := shouldEnableColor(output, mode, disableColor)
	return &UI{
		Out:          out,
		Err:          err,
		Output:       output,
		ErrOutput:    errOutput,
		ColorEnabled: colorEnabled,
	}
}

func shouldEnableColor(output *termenv.Output, mode ColorMode, disableColor bool) bool {
	if disableColor {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.ColorProfile() != termenv.Ascii
	}
}

func (u *UI) Errorf(format string, args ...any) {
	u.writeErr("1", format, args...)
}

func (u *UI) Warnf(format string, args ...any) {
	u.writeErr("3", format, args...)
}

func (u *UI) Infof(format string, args ...any) {
	u.writeOut("4", format, args...)
}

func (u *UI) Successf(format string, args ...any) {
	u.writeOut("2", format, args...)
}

// Stepf announces the start of a collection phase.
func (u *UI) Stepf(format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled {
		msg = u.Output.String(msg).Bold().String()
	}
	fmt.Fprintln(u.Out, msg)
}

// Skippedf reports a category disabled in configuration.
func (u *UI) Skippedf(format string, args ...any) {
	u.writeOut("3", "⊘ "+format, args...)
}

func (u *UI) writeOut(color string, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled {
		msg = u.Output.String(msg).Foreground(u.Output.Color(color)).String()
	}
	fmt.Fprintln(u.Out, msg)
}

func (u *UI) writeErr(color string, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled {
		msg = u.ErrOutput.String(msg).Foreground(u.ErrOutput.Color(color)).String()
	}
	fmt.Fprintln(u.Err, msg)
}

func NormalizeColorMode(value string) ColorMode {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case string(ColorAlways):
		return ColorAlways
	case string(ColorNever):
		return ColorNever
	default:
		return ColorAuto
	}
}
