package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// recipeSearcher is the recipe search service the nutrition planner consumes.
type recipeSearcher interface {
	SearchRecipes(ctx context.Context, params recipeSearchParams) ([]recipeSummary, error)
}

// recipeSearchParams is the full filter set for one meal-type search.
type recipeSearchParams struct {
	Query              string
	Diet               string
	Intolerances       string
	ExcludeIngredients string
	MealType           string
	Macros             macroRanges

	InstructionsRequired bool
	AddRecipeInformation bool
	MaxReadyTime         int
	IgnorePantry         bool
	Sort                 string
	SortDirection        string
	Number               int
}

// values encodes the params as complexSearch query parameters. Empty text
// filters are omitted; numeric bounds are always sent.
func (p recipeSearchParams) values() url.Values {
	v := url.Values{}
	setIf := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	setIf("query", p.Query)
	setIf("diet", p.Diet)
	setIf("intolerances", p.Intolerances)
	setIf("excludeIngredients", p.ExcludeIngredients)
	setIf("type", p.MealType)

	v.Set("minCalories", strconv.Itoa(p.Macros.MinCalories))
	v.Set("maxCalories", strconv.Itoa(p.Macros.MaxCalories))
	v.Set("minProtein", strconv.Itoa(p.Macros.MinProtein))
	v.Set("maxProtein", strconv.Itoa(p.Macros.MaxProtein))
	v.Set("minFat", strconv.Itoa(p.Macros.MinFat))
	v.Set("maxFat", strconv.Itoa(p.Macros.MaxFat))
	v.Set("minCarbs", strconv.Itoa(p.Macros.MinCarbs))
	v.Set("maxCarbs", strconv.Itoa(p.Macros.MaxCarbs))

	v.Set("instructionsRequired", strconv.FormatBool(p.InstructionsRequired))
	v.Set("addRecipeInformation", strconv.FormatBool(p.AddRecipeInformation))
	v.Set("maxReadyTime", strconv.Itoa(p.MaxReadyTime))
	v.Set("ignorePantry", strconv.FormatBool(p.IgnorePantry))
	setIf("sort", p.Sort)
	setIf("sortDirection", p.SortDirection)
	v.Set("number", strconv.Itoa(p.Number))
	return v
}

// recipeSummary is the subset of a complexSearch result the planner uses.
// The nutrient and instruction payload is left undecoded.
type recipeSummary struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings"`
	Summary        string `json:"summary"`
}

/* ─── HTTP client ────────────────────────────────────────────────────── */

// recipeClient calls a Spoonacular-compatible complexSearch endpoint.
type recipeClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newRecipeClient(baseURL, apiKey string) *recipeClient {
	return &recipeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SearchRecipes runs one complexSearch request. A non-200 status is an error;
// an empty results array is not.
func (rc *recipeClient) SearchRecipes(ctx context.Context, params recipeSearchParams) ([]recipeSummary, error) {
	if rc.apiKey == "" {
		return nil, fmt.Errorf("RECIPE_API_KEY not set")
	}

	reqURL := rc.baseURL + "/recipes/complexSearch?" + params.values().Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", rc.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := rc.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recipe search returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Results []recipeSummary `json:"results"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return result.Results, nil
}
