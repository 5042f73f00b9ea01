package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// httpSimilarityScorer delegates AI-similarity detection to an external
// analysis service. A slow or failing detector is reported as an error and
// handled by the pipeline's retry policy, never waited on indefinitely.
type httpSimilarityScorer struct {
	httpClient *http.Client
}

func NewHTTPSimilarityScorer() SimilarityScorer {
	return &httpSimilarityScorer{
		httpClient: &http.Client{Timeout: time.Second * 15},
	}
}

type similarityRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type similarityResponse struct {
	Score float64 `json:"score"`
}

func (s *httpSimilarityScorer) Score(ctx context.Context, title string, content string) (float64, error) {
	endpoint := "/similarity"
	url := viper.GetString("scoring.ai-service") + endpoint

	requestBody, err := json.Marshal(similarityRequest{Title: title, Content: content})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ai-service endpoint(%s) returned code(%d)", endpoint, resp.StatusCode)
	}

	var result similarityResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}

	if result.Score < 0 || result.Score > 1 {
		return 0, fmt.Errorf("ai-service returned score(%f) out of range", result.Score)
	}

	return result.Score, nil
}
