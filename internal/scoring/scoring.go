package scoring

import "context"

// The three engines are pluggable: the pipeline owns when they run and what
// their outputs mean, not how they compute them.

type ProfanityDetector interface {
	Detect(ctx context.Context, title string, content string) (bool, error)
}

type SeoScorer interface {
	// Score returns a value in [0, 100].
	Score(ctx context.Context, title string, content string) (float64, error)
}

type SimilarityScorer interface {
	// Score returns a value in [0.0, 1.0].
	Score(ctx context.Context, title string, content string) (float64, error)
}

type TagGenerator interface {
	Generate(title string, content string, maxTags int) []string
}

type Engines struct {
	Profanity  ProfanityDetector
	Seo        SeoScorer
	Similarity SimilarityScorer
	Tags       TagGenerator
}

func DefaultEngines() *Engines {
	return &Engines{
		Profanity:  NewWordListDetector(),
		Seo:        NewHeuristicSeoScorer(),
		Similarity: NewHTTPSimilarityScorer(),
		Tags:       NewTfIdfTagGenerator(),
	}
}
