package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// exerciseSearcher is the exercise catalog the workout planner consumes.
type exerciseSearcher interface {
	SearchExercises(ctx context.Context, muscle, difficulty string) ([]exercise, error)
}

// exercise is one catalog record.
type exercise struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Muscle     string `json:"muscle"`
	Equipment  string `json:"equipment"`
	Difficulty string `json:"difficulty"`
}

// exerciseClient calls an API Ninjas-compatible /v1/exercises endpoint.
type exerciseClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newExerciseClient(baseURL, apiKey string) *exerciseClient {
	return &exerciseClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SearchExercises fetches exercises for one muscle filtered by difficulty. The
// difficulty is passed through literally (e.g. "Beginner").
func (ec *exerciseClient) SearchExercises(ctx context.Context, muscle, difficulty string) ([]exercise, error) {
	if ec.apiKey == "" {
		return nil, fmt.Errorf("EXERCISE_API_KEY not set")
	}

	q := url.Values{}
	q.Set("muscle", muscle)
	q.Set("difficulty", difficulty)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, ec.baseURL+"/v1/exercises?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", ec.apiKey)

	resp, err := ec.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exercise search for %s returned status %d: %s", muscle, resp.StatusCode, string(respBytes))
	}

	var results []exercise
	if err := json.Unmarshal(respBytes, &results); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	for i := range results {
		if results[i].ID == "" {
			results[i].ID = exerciseID(results[i].Name)
		}
	}
	return results, nil
}

// exerciseID derives a stable id for catalogs that don't return one, so the
// same exercise keeps its id across plan regenerations.
func exerciseID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("exercise:"+name)).String()
}
