package terminal

import (
	"fmt"
	"io"
)

// ResetTerminal writes the sequences that undo mouse tracking, the alternate
// screen and hidden cursor, for use after an abnormal exit.
func ResetTerminal(w io.Writer) {
	for _, seq := range []string{
		"\033[?1000l", // normal tracking
		"\033[?1002l", // button event tracking
		"\033[?1003l", // all motion tracking
		"\033[?1004l", // focus tracking
		"\033[?1006l", // SGR mouse mode
		"\033[?25h",   // show cursor
		"\033[?1049l", // leave alternate screen
		"\033[0m",
	} {
		_, _ = fmt.Fprint(w, seq)
	}
}
