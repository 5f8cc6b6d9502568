package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecipeClient_SearchRecipes(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":716429,"title":"Pasta with Garlic","image":"pasta.jpg","readyInMinutes":45,"servings":2,"summary":"<b>Good</b>","nutrition":{"nutrients":[]}}],"totalResults":1}`))
	}))
	defer srv.Close()

	rc := newRecipeClient(srv.URL, "test-key")
	params := recipeSearchParams{
		Query:                "pasta",
		Diet:                 "vegetarian",
		MealType:             "dinner",
		Macros:               deriveMacroRanges(2000),
		InstructionsRequired: true,
		AddRecipeInformation: true,
		MaxReadyTime:         60,
		Sort:                 "calories",
		SortDirection:        "asc",
		Number:               1,
	}

	results, err := rc.SearchRecipes(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/recipes/complexSearch" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}

	want := map[string]string{
		"query": "pasta", "diet": "vegetarian", "type": "dinner",
		"minCalories": "1800", "maxCalories": "2200",
		"minProtein": "75", "maxProtein": "125",
		"minFat": "44", "maxFat": "67",
		"minCarbs": "225", "maxCarbs": "275",
		"instructionsRequired": "true", "addRecipeInformation": "true",
		"maxReadyTime": "60", "ignorePantry": "false",
		"sort": "calories", "sortDirection": "asc", "number": "1",
	}
	for k, v := range want {
		if got := strings.Join(gotQuery[k], ","); got != v {
			t.Errorf("param %s = %q, want %q", k, got, v)
		}
	}
	for _, k := range []string{"intolerances", "excludeIngredients"} {
		if _, ok := gotQuery[k]; ok {
			t.Errorf("empty param %s should be omitted", k)
		}
	}

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.ID != 716429 || r.Title != "Pasta with Garlic" || r.ReadyInMinutes != 45 || r.Servings != 2 {
		t.Errorf("result = %+v", r)
	}
}

func TestRecipeClient_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[],"totalResults":0}`))
	}))
	defer srv.Close()

	results, err := newRecipeClient(srv.URL, "k").SearchRecipes(context.Background(), recipeSearchParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestRecipeClient_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"message":"daily quota used up"}`))
	}))
	defer srv.Close()

	_, err := newRecipeClient(srv.URL, "k").SearchRecipes(context.Background(), recipeSearchParams{})
	if err == nil || !strings.Contains(err.Error(), "402") {
		t.Errorf("err = %v, want status 402 error", err)
	}
}

func TestRecipeClient_MissingKey(t *testing.T) {
	_, err := newRecipeClient("http://unused.invalid", "").SearchRecipes(context.Background(), recipeSearchParams{})
	if err == nil || !strings.Contains(err.Error(), "RECIPE_API_KEY") {
		t.Errorf("err = %v, want missing key error", err)
	}
}
