package main

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/bodul/funzone/internal/puzzle"
)

// QA is a question with its answer.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ClueAnswer is a definition with a one-word answer.
type ClueAnswer struct {
	Clue   string `json:"clue"`
	Answer string `json:"answer"`
}

// FunZoneContent is the puzzle page material returned by the model.
type FunZoneContent struct {
	Trivia          []QA         `json:"trivia"`
	WordSearchWords []string     `json:"word_search_words"`
	Riddle          QA           `json:"riddle"`
	Crossword       []ClueAnswer `json:"crossword"`
	Tashchetz       []ClueAnswer `json:"tashchetz"`
}

// PuzzleInput converts the content into generator input.
func (fz *FunZoneContent) PuzzleInput() puzzle.FunZoneInput {
	return puzzle.FunZoneInput{
		WordSearchWords: fz.WordSearchWords,
		Crossword:       toEntries(fz.Crossword),
		Tashchetz:       toEntries(fz.Tashchetz),
	}
}

func toEntries(items []ClueAnswer) []puzzle.Entry {
	out := make([]puzzle.Entry, len(items))
	for i, it := range items {
		out[i] = puzzle.Entry{Word: it.Answer, Clue: it.Clue}
	}
	return out
}

// defaultFunZone fills sections the model left out.
func defaultFunZone() FunZoneContent {
	return FunZoneContent{
		Trivia: []QA{
			{Question: "מה הכוכב הקרוב ביותר לכדור הארץ?", Answer: "השמש"},
			{Question: "כמה רגליים יש לעכביש?", Answer: "8 רגליים"},
			{Question: "מהי היבשת הגדולה ביותר?", Answer: "אסיה"},
		},
		WordSearchWords: []string{"שמש", "ירח", "כוכב", "ענן", "גשם", "רוח", "שלג", "קשת"},
		Riddle:          QA{Question: "מה שייך לך אבל אחרים משתמשים בו יותר ממך?", Answer: "השם שלך"},
		Crossword: []ClueAnswer{
			{Clue: "בירת ישראל", Answer: "ירושלים"},
			{Clue: "החיה המהירה בעולם", Answer: "ברדלס"},
			{Clue: "צבע השמיים", Answer: "כחול"},
			{Clue: "מלך החיות", Answer: "אריה"},
			{Clue: "הכוכב שמאיר ביום", Answer: "שמש"},
		},
		Tashchetz: []ClueAnswer{
			{Clue: "בירת ישראל", Answer: "ירושלים"},
			{Clue: "מלך החיות", Answer: "אריה"},
			{Clue: "צבע השמיים", Answer: "כחול"},
			{Clue: "מאירה ביום", Answer: "שמש"},
			{Clue: "מים מלוחים", Answer: "ים"},
			{Clue: "קוראים בו", Answer: "ספר"},
		},
	}
}

var (
	citationRe  = regexp.MustCompile(`\[\d+\]`)
	spacesRe    = regexp.MustCompile(`\s+`)
	codeFenceRe = regexp.MustCompile("```(?:json)?\\s*")
	objectRe    = regexp.MustCompile(`(?s)\{.*\}`)
)

var errNoJSON = errors.New("no JSON object in model response")

// cleanText removes citation markers like [1] and collapses whitespace.
func cleanText(s string) string {
	s = citationRe.ReplaceAllString(s, "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// extractJSON unmarshals the first JSON object found in text, tolerating
// markdown code fences and surrounding prose.
func extractJSON(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	cleaned := strings.TrimSpace(codeFenceRe.ReplaceAllString(text, ""))
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	m := objectRe.FindString(cleaned)
	if m == "" {
		return errNoJSON
	}
	return json.Unmarshal([]byte(m), v)
}

// parseFunZone decodes a model response, cleans every string and fills
// missing sections with defaults.
func parseFunZone(text string) (*FunZoneContent, error) {
	var fz FunZoneContent
	if err := extractJSON(text, &fz); err != nil {
		return nil, err
	}

	def := defaultFunZone()
	if len(fz.Trivia) == 0 {
		fz.Trivia = def.Trivia
	}
	if len(fz.WordSearchWords) == 0 {
		fz.WordSearchWords = def.WordSearchWords
	}
	if fz.Riddle.Question == "" {
		fz.Riddle = def.Riddle
	}
	if len(fz.Crossword) == 0 {
		fz.Crossword = def.Crossword
	}
	if len(fz.Tashchetz) == 0 {
		fz.Tashchetz = def.Tashchetz
	}

	for i := range fz.Trivia {
		fz.Trivia[i].Question = cleanText(fz.Trivia[i].Question)
		fz.Trivia[i].Answer = cleanText(fz.Trivia[i].Answer)
	}
	for i := range fz.WordSearchWords {
		fz.WordSearchWords[i] = cleanText(fz.WordSearchWords[i])
	}
	fz.Riddle.Question = cleanText(fz.Riddle.Question)
	fz.Riddle.Answer = cleanText(fz.Riddle.Answer)
	for _, list := range [][]ClueAnswer{fz.Crossword, fz.Tashchetz} {
		for i := range list {
			list[i].Clue = cleanText(list[i].Clue)
			list[i].Answer = cleanText(list[i].Answer)
		}
	}
	return &fz, nil
}
