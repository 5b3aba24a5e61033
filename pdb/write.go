package pdb

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTransformed writes every line of the entry to w. The coordinates of
// every ATOM and HETATM record, in every model, are replaced by the result of
// calling move on them. All other columns are left untouched.
func (e *Entry) WriteTransformed(w io.Writer, move func(Coords) Coords) error {
	buf := bufio.NewWriter(w)
	for _, line := range e.lines {
		switch recordName(line) {
		case "ATOM", "HETATM":
			if len(line) < 54 {
				break
			}
			coords, err := parseCoords(line)
			if err != nil {
				return fmt.Errorf("%s: %w", e.Path, err)
			}
			moved := move(coords)
			xyz := fmt.Sprintf("%8.3f%8.3f%8.3f", moved[0], moved[1], moved[2])
			if len(xyz) != 24 {
				return fmt.Errorf("%s: moved coordinates %v do not fit in "+
					"columns 31-54", e.Path, moved)
			}
			line = line[:30] + xyz + line[54:]
		}
		if _, err := fmt.Fprintln(buf, line); err != nil {
			return err
		}
	}
	return buf.Flush()
}
