package scoring

import (
	"math"
	"sort"
	"strings"
)

var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(
		"a an the and or but in on at to for of with by from as is was are were been " +
			"be have has had do does did will would could should may might must shall can " +
			"need dare ought used it its this that these those i you he she we they what " +
			"which who whom whose where when why how all each every both few more most " +
			"other some such no nor not only own same so than too very just also now here " +
			"there then once if because until while about into through during before after " +
			"above below up down out off over under again further any your my his her our " +
			"their them him me us get got like make made even still way well back being " +
			"much many however although though since") {
		stopWords[w] = true
	}
}

// tfIdfTagGenerator derives tags from a single document: term frequency
// weighted by an inverse-frequency proxy, title counted twice, stop words
// and short words dropped.
type tfIdfTagGenerator struct{}

func NewTfIdfTagGenerator() TagGenerator {
	return &tfIdfTagGenerator{}
}

func (g *tfIdfTagGenerator) Generate(title string, content string, maxTags int) []string {
	fullText := strings.ToLower(title + " " + title + " " + content)

	words := tokenize(fullText)
	if len(words) == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, w := range words {
		counts[w]++
	}

	totalWords := float64(len(words))
	totalUnique := float64(len(counts))

	type scored struct {
		word  string
		score float64
	}
	ranked := make([]scored, 0, len(counts))
	for word, count := range counts {
		tf := float64(count) / totalWords
		idf := math.Log(totalUnique/float64(count)) + 1
		ranked = append(ranked, scored{word: word, score: tf * idf})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].word < ranked[j].word
	})

	if maxTags > len(ranked) {
		maxTags = len(ranked)
	}
	tags := make([]string, 0, maxTags)
	for _, entry := range ranked[:maxTags] {
		tags = append(tags, entry.word)
	}
	return tags
}

func tokenize(text string) []string {
	var words []string
	for _, raw := range splitLetters(text) {
		word := stem(raw)
		if len(word) <= 3 || stopWords[word] {
			continue
		}
		words = append(words, word)
	}
	return words
}

// stem strips the most common English suffixes; enough for tag grouping,
// not a real stemmer.
func stem(word string) string {
	switch {
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		return word[:len(word)-3]
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ly") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "es") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && len(word) > 4 && !strings.HasSuffix(word, "ss"):
		return word[:len(word)-1]
	}
	return word
}
