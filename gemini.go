package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const funZoneSystemPrompt = `ענה בעברית בלבד. התאם לתלמידי כיתות ד׳-ו׳ (גילאי 9-12).
כל התשובות חייבות להיות מדויקות ומהימנות. אסור להמציא עובדות.
החזר JSON תקין בלבד במבנה הבא:
{"trivia":[{"question":"שאלה","answer":"תשובה"}],"word_search_words":["מילה"],"riddle":{"question":"חידה","answer":"תשובה"},"crossword":[{"clue":"הגדרה","answer":"מילה"}],"tashchetz":[{"clue":"הגדרה קצרה","answer":"מילה"}]}`

const funZonePrompt = `צור תוכן לפינת "הפסקה פעילה".
נושאי הגיליון: %s.
צור 3 שאלות טריוויה, חידה אחת, ו-8 מילים לתפזורת (מילה אחת בלבד, עד 10 אותיות, ללא רווחים).
צור 10-12 הגדרות לתשבץ: זוגות של "הגדרה" ו-"תשובה" (מילה אחת בלבד, ללא רווחים).
צור 10-12 הגדרות לתשחץ: זוגות של "הגדרה" ו-"תשובה" (מילה אחת, ללא רווחים, 2-6 אותיות). ההגדרות קצרות, 2-3 מילים.
החזר JSON בלבד.`

// ContentGenerator produces the fun-zone material of an edition.
type ContentGenerator interface {
	GenerateFunZone(ctx context.Context, topics []string) (*FunZoneContent, error)
}

// GenerateFunZone asks Gemini for trivia, a riddle and the word lists of the
// three puzzles. An unparseable answer yields the default content.
func (g *GeminiClient) GenerateFunZone(ctx context.Context, topics []string) (*FunZoneContent, error) {
	subject := strings.Join(topics, ", ")
	if subject == "" {
		subject = "ידע כללי"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: fmt.Sprintf(funZonePrompt, subject)}},
		}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: funZoneSystemPrompt}}},
			Temperature:       genai.Ptr(float32(0.2)),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	fz, err := parseFunZone(text)
	if err != nil {
		g.log.Warn("unparseable fun-zone response, using defaults",
			zap.Error(err), zap.String("raw", truncate(text, 200)))
		def := defaultFunZone()
		return &def, nil
	}
	return fz, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
