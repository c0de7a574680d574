package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var schoolWords = []Entry{
	{Word: "ירושלים", Clue: "בירת ישראל"},
	{Word: "ברדלס", Clue: "החיה המהירה בעולם"},
	{Word: "כחול", Clue: "צבע השמיים"},
	{Word: "שמש", Clue: "הכוכב הקרוב אלינו"},
	{Word: "אריה", Clue: "מלך החיות"},
	{Word: "ספר", Clue: "קוראים בו"},
	{Word: "מחשב", Clue: "מכונה חושבת"},
	{Word: "ים", Clue: "מים מלוחים רבים"},
}

// replay reads a placed word back from the grid.
func replay(cw *Crossword, pw PlacedWord) string {
	var out string
	for i := range []rune(pw.Word) {
		if pw.Direction == Across {
			out += cw.Grid[pw.Row][pw.Col+i]
		} else {
			out += cw.Grid[pw.Row+i][pw.Col]
		}
	}
	return out
}

func TestCrosswordSingleWordCentered(t *testing.T) {
	cw := GenerateCrossword([]Entry{{Word: "אריה", Clue: "מלך החיות"}}, 12, 12, Options{})

	require.Len(t, cw.PlacedWords, 1)
	pw := cw.PlacedWords[0]
	assert.Equal(t, PlacedWord{Word: "אריה", Clue: "מלך החיות", Row: 6, Col: 4, Direction: Across, Number: 1}, pw)
	assert.Equal(t, []string{"", "", "", "", "א", "ר", "י", "ה", "", "", "", ""}, cw.Grid[6])
}

func TestCrosswordCrossesFirstMatch(t *testing.T) {
	items := []Entry{{Word: "שמש", Clue: "מאירה ביום"}, {Word: "ירושלים", Clue: "בירת ישראל"}}
	cw := GenerateCrossword(items, 12, 12, Options{Logger: zaptest.NewLogger(t)})

	require.Len(t, cw.PlacedWords, 2)
	assert.Equal(t, PlacedWord{Word: "ירושלים", Clue: "בירת ישראל", Row: 6, Col: 2, Direction: Across, Number: 1}, cw.PlacedWords[0])
	assert.Equal(t, PlacedWord{Word: "שמש", Clue: "מאירה ביום", Row: 6, Col: 5, Direction: Down, Number: 2}, cw.PlacedWords[1])
}

func TestCrosswordDropsWordWithoutIntersection(t *testing.T) {
	items := []Entry{{Word: "אריה", Clue: "מלך החיות"}, {Word: "בטל", Clue: "מבוטל"}}
	cw := GenerateCrossword(items, 0, 0, Options{})

	assert.Equal(t, 12, cw.Rows)
	assert.Equal(t, 12, cw.Cols)
	require.Len(t, cw.PlacedWords, 1)
	assert.Equal(t, []string{"בטל"}, cw.Unplaced)
}

func TestCrosswordStripsWhitespace(t *testing.T) {
	cw := GenerateCrossword([]Entry{{Word: "בית ספר", Clue: "לומדים בו"}}, 12, 12, Options{})

	require.Len(t, cw.PlacedWords, 1)
	assert.Equal(t, "ביתספר", cw.PlacedWords[0].Word)
	assert.Equal(t, 3, cw.PlacedWords[0].Col)
}

func TestCrosswordEmptyInput(t *testing.T) {
	cw := GenerateCrossword(nil, 12, 12, Options{})

	assert.Empty(t, cw.PlacedWords)
	require.Len(t, cw.Grid, 12)
	for _, row := range cw.Grid {
		for _, ch := range row {
			assert.Empty(t, ch)
		}
	}
}

func TestCrosswordProperties(t *testing.T) {
	cw := GenerateCrossword(schoolWords, 12, 12, Options{Logger: zaptest.NewLogger(t)})
	require.Greater(t, len(cw.PlacedWords), 1)

	// Every placed word reads back from the grid, so shared cells agree.
	owners := map[[2]int]rune{}
	for _, pw := range cw.PlacedWords {
		assert.Equal(t, pw.Word, replay(cw, pw))
		for i, ch := range []rune(pw.Word) {
			key := [2]int{pw.Row, pw.Col + i}
			if pw.Direction == Down {
				key = [2]int{pw.Row + i, pw.Col}
			}
			if prev, ok := owners[key]; ok {
				assert.Equal(t, prev, ch, "cell %v", key)
			}
			owners[key] = ch
		}
	}

	// No letter exists outside the placed words.
	for r, row := range cw.Grid {
		for c, ch := range row {
			_, owned := owners[[2]int{r, c}]
			assert.Equal(t, ch != "", owned, "cell %d,%d", r, c)
		}
	}

	// Numbers follow reading order of the anchors.
	for i, a := range cw.PlacedWords {
		for _, b := range cw.PlacedWords[i+1:] {
			if a.Number < b.Number {
				assert.True(t, a.Row < b.Row || (a.Row == b.Row && a.Col < b.Col), "%+v before %+v", a, b)
			}
			if a.Row == b.Row && a.Col == b.Col {
				assert.Equal(t, a.Number, b.Number)
			}
		}
	}
	assert.Equal(t, len(schoolWords), len(cw.PlacedWords)+len(cw.Unplaced))
}

func TestCrosswordClues(t *testing.T) {
	items := []Entry{{Word: "שמש", Clue: "מאירה ביום"}, {Word: "ירושלים", Clue: "בירת ישראל"}}
	cw := GenerateCrossword(items, 12, 12, Options{})

	assert.Equal(t, 1, cw.Number(6, 2))
	assert.Equal(t, 2, cw.Number(6, 5))
	assert.Equal(t, 0, cw.Number(0, 0))
	require.Len(t, cw.Clues(Across), 1)
	require.Len(t, cw.Clues(Down), 1)
	assert.Equal(t, "שמש", cw.Clues(Down)[0].Word)
}
