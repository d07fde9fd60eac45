package cli

import (
	"fmt"
	"io"
)

const dumpRowSize = 16

// hexDump writes the classic 16 bytes per row hex view with a
// printable ASCII column, addressed in console address space.
func hexDump(w io.Writer, base uint64, data []byte) {
	for offset := 0; offset < len(data); offset += dumpRowSize {
		end := min(offset+dumpRowSize, len(data))
		row := data[offset:end]

		fmt.Fprintf(w, "%08X  ", base+uint64(offset))
		for i := range dumpRowSize {
			if i < len(row) {
				fmt.Fprintf(w, "%02X ", row[i])
			} else {
				fmt.Fprint(w, "   ")
			}
			if i == dumpRowSize/2-1 {
				fmt.Fprint(w, " ")
			}
		}

		fmt.Fprint(w, " |")
		for _, b := range row {
			if b >= 0x20 && b <= 0x7E {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprint(w, ".")
			}
		}
		fmt.Fprintln(w, "|")
	}
}
