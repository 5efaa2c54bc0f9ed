package marlin

import (
	"fmt"
	"io"

	"github.com/iley/gpost/internal/gcode"
)

func formatLine(out io.Writer, line gcode.Line) {
	code := line.Code()
	switch {
	case line.Blank:
	case code != "" && line.Comment != "":
		fmt.Fprintf(out, "%s ; %s", code, line.Comment)
	case code != "":
		fmt.Fprintf(out, "%s", code)
	case line.Comment != "":
		fmt.Fprintf(out, "; %s", line.Comment)
	}
	fmt.Fprintf(out, "\n")
}
