package display

import (
	"fmt"
	"io"

	"github.com/backmassage/assetpress/internal/term"
)

const banner = `                   _
  __ _ ___ ___ ___| |_ _ __  _ __ ___  ___ ___
 / _` + "`" + ` / __/ __/ _ \ __| '_ \| '__/ _ \/ __/ __|
| (_| \__ \__ \  __/ |_| |_) | | |  __/\__ \__ \
 \__,_|___/___/\___|\__| .__/|_|  \___||___/___/
                       |_|
`

// PrintBanner writes the ASCII art banner to w, in magenta when p is enabled.
func PrintBanner(w io.Writer, p term.Palette) {
	fmt.Fprint(w, p.Paint(p.Magenta, banner))
	if p.Enabled() {
		fmt.Fprintln(w)
	}
}
