package scoring

import (
	"context"
	"strings"
)

// heuristicSeoScorer grades a post against a fixed checklist: title length,
// content length, headings, paragraph structure, sentence variety, links,
// images and title-keyword coverage. Weights sum to 100.
type heuristicSeoScorer struct{}

func NewHeuristicSeoScorer() SeoScorer {
	return &heuristicSeoScorer{}
}

func (s *heuristicSeoScorer) Score(_ context.Context, title string, content string) (float64, error) {
	var score float64

	// Title length (10%), ideal 50-70 chars.
	titleLen := len(title)
	switch {
	case titleLen >= 50 && titleLen <= 70:
		score += 10
	case titleLen >= 30 && titleLen <= 90:
		score += 6
	case titleLen > 0:
		score += 3
	}

	// Content length (20%), ideal 600-2000 words.
	wordCount := len(strings.Fields(content))
	switch {
	case wordCount >= 600 && wordCount <= 2000:
		score += 20
	case wordCount >= 300 && wordCount <= 3000:
		score += 12
	case wordCount >= 100:
		score += 6
	case wordCount > 0:
		score += 2
	}

	// Headings presence (10%).
	if strings.Contains(content, "#") || strings.Contains(content, "<h1") || strings.Contains(content, "<h2") {
		score += 10
	} else if len(content) > 500 {
		score += 3
	}

	// Paragraph structure (10%).
	paragraphs := strings.Count(content, "\n") + 1
	if paragraphs >= 3 {
		score += 10
	} else if paragraphs >= 2 {
		score += 5
	}

	// Sentence variety (15%).
	sentences := splitSentences(content)
	if len(sentences) >= 5 {
		avgSentenceLen := float64(wordCount) / float64(len(sentences))
		switch {
		case avgSentenceLen >= 10 && avgSentenceLen <= 20:
			score += 15
		case avgSentenceLen >= 5 && avgSentenceLen <= 30:
			score += 10
		default:
			score += 5
		}
	} else if len(sentences) >= 2 {
		score += 7
	}

	// Links (10%).
	if strings.Contains(content, "http") || strings.Contains(content, "href") {
		score += 10
	}

	// Images (10%).
	if strings.Contains(content, "<img") || strings.Contains(content, "![") {
		score += 10
	}

	// Title keywords present in content (15%).
	contentLower := strings.ToLower(content)
	keywordMatches := 0
	for _, word := range strings.Fields(strings.ToLower(title)) {
		if len(word) > 3 && strings.Contains(contentLower, word) {
			keywordMatches++
		}
	}
	if keywordMatches >= 3 {
		score += 15
	} else if keywordMatches >= 1 {
		score += 8
	}

	if score > 100 {
		score = 100
	}
	return score, nil
}

func splitSentences(content string) []string {
	return strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}
