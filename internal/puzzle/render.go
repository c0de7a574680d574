package puzzle

import (
	"fmt"
	"io"
	"strings"
)

const (
	blockMark = "■"
	blankMark = "□"
)

// RenderWordSearch writes the grid and the list of words to find.
func RenderWordSearch(w io.Writer, ws *WordSearch) error {
	var b strings.Builder
	for _, row := range ws.Grid {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nמילים: %s\n", strings.Join(ws.Words, ", "))
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderCrossword writes the grid, numbered blanks or the solution when
// solved is true, followed by the across and down clue lists.
func RenderCrossword(w io.Writer, cw *Crossword, solved bool) error {
	var b strings.Builder
	for r, row := range cw.Grid {
		cells := make([]string, len(row))
		for c, ch := range row {
			switch {
			case ch == "":
				cells[c] = fmt.Sprintf("%3s", blockMark)
			case solved:
				cells[c] = fmt.Sprintf("%3s", ch)
			case cw.Number(r, c) > 0:
				cells[c] = fmt.Sprintf("%3d", cw.Number(r, c))
			default:
				cells[c] = fmt.Sprintf("%3s", blankMark)
			}
		}
		b.WriteString(strings.Join(cells, ""))
		b.WriteByte('\n')
	}

	for _, sec := range []struct {
		title string
		dir   Orientation
	}{{"מאוזן", Across}, {"מאונך", Down}} {
		fmt.Fprintf(&b, "\n%s:\n", sec.title)
		for _, pw := range cw.Clues(sec.dir) {
			fmt.Fprintf(&b, "%d. %s (%d)\n", pw.Number, pw.Clue, len([]rune(pw.Word)))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderTashchetz writes the trimmed grid with arrows on clue cells and the
// answer key, numbered in placement order.
func RenderTashchetz(w io.Writer, t *Tashchetz, solved bool) error {
	var b strings.Builder
	for _, row := range t.Trimmed() {
		cells := make([]string, len(row))
		for c, cell := range row {
			switch cell.Kind {
			case Clue:
				if cell.Dir == ArrowH {
					cells[c] = "←"
				} else {
					cells[c] = "↓"
				}
			case Letter:
				cells[c] = blankMark
				if solved {
					cells[c] = cell.Char
				}
			default:
				cells[c] = blockMark
			}
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}

	b.WriteString("\nהגדרות:\n")
	for i, p := range t.Placed {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, p.Clue, map[Arrow]string{ArrowH: "←", ArrowV: "↓"}[p.Dir])
	}
	keys := make([]string, len(t.Placed))
	for i, p := range t.Placed {
		keys[i] = fmt.Sprintf("%d.%s", i+1, p.Word)
	}
	fmt.Fprintf(&b, "\nתשובות: %s\n", strings.Join(keys, " | "))
	_, err := io.WriteString(w, b.String())
	return err
}
