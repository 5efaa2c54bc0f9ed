package common

import (
	"fmt"
	"io"

	"github.com/iley/gpost/internal/gcode"
)

// FormatParens writes lines for controllers that take "(...)" comments,
// which is the LinuxCNC/RS274NGC convention most dialects follow.
func FormatParens(out io.Writer, lines []gcode.Line) {
	for _, line := range lines {
		formatParenLine(out, line)
	}
}

func formatParenLine(out io.Writer, line gcode.Line) {
	code := line.Code()
	switch {
	case line.Blank:
	case code != "" && line.Comment != "":
		fmt.Fprintf(out, "%s (%s)", code, line.Comment)
	case code != "":
		fmt.Fprintf(out, "%s", code)
	case line.Comment != "":
		fmt.Fprintf(out, "(%s)", line.Comment)
	}
	fmt.Fprintf(out, "\n")
}
