package scoring

import (
	"context"
	"strings"
	"unicode"
)

var defaultProfaneWords = []string{
	"fuck", "shit", "ass", "bitch", "damn", "crap", "bastard", "hell",
	"dick", "cock", "pussy", "cunt", "whore", "slut",
	"asshole", "bullshit", "motherfucker", "fucker", "fucking", "shitty",
}

// wordListDetector flags a post when any whole word of title+content,
// lowercased and stripped of non-letters, appears in the banned set.
type wordListDetector struct {
	words map[string]bool
}

func NewWordListDetector(extra ...string) ProfanityDetector {
	words := make(map[string]bool, len(defaultProfaneWords)+len(extra))
	for _, w := range defaultProfaneWords {
		words[w] = true
	}
	for _, w := range extra {
		words[strings.ToLower(w)] = true
	}
	return &wordListDetector{words: words}
}

func (d *wordListDetector) Detect(_ context.Context, title string, content string) (bool, error) {
	text := strings.ToLower(title + " " + content)
	for _, word := range splitLetters(text) {
		if d.words[word] {
			return true, nil
		}
	}
	return false, nil
}

func splitLetters(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
