package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

type archivedPlan struct {
	userID, kind string
	doc          any
}

type fakeArchive struct {
	archived []archivedPlan
	err      error
}

func (f *fakeArchive) Archive(_ context.Context, userID, kind string, doc any) error {
	f.archived = append(f.archived, archivedPlan{userID, kind, doc})
	return f.err
}

// newTestRouter mounts the plan and preference routes behind a stub auth
// middleware that authenticates every request as userID.
func newTestRouter(h *Handler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	api.GET("/preferences", h.getPreferences)
	api.GET("/targets", h.getTargets)
	api.POST("/meal-plan", h.generateMealPlan)
	api.GET("/meal-plan", h.getMealPlan)
	api.POST("/workout-plan", h.generateWorkoutPlan)
	api.GET("/workout-plan", h.getWorkoutPlan)
	return router
}

func newTestHandler(recipes recipeSearcher, exercises exerciseSearcher) (*Handler, *memPlanStore, *fakeArchive) {
	prefs := &fakePreferenceStore{
		prefs: map[string]userPreferences{"user-1": samplePreferences()},
		foods: []string{"beans"},
	}
	store := newMemPlanStore()
	archive := &fakeArchive{}
	h := &Handler{
		prefs:     prefs,
		plans:     store,
		archive:   archive,
		nutrition: newTestNutritionPlanner(recipes, prefs, store),
		workouts:  newTestWorkoutPlanner(exercises, store),
	}
	return h, store, archive
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateMealPlan(t *testing.T) {
	recipes := &fakeRecipes{
		results: map[string][]recipeSummary{"breakfast": {recipe("Oats")}, "dinner": {recipe("Chili")}},
		errs:    map[string]error{"lunch": errors.New("status 500")},
	}
	h, _, archive := newTestHandler(recipes, &fakeExercises{})
	router := newTestRouter(h, "user-1")

	w := serve(router, http.MethodPost, "/api/meal-plan")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp planResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "partial" {
		t.Errorf("status = %q, want partial", resp.Status)
	}
	if !reflect.DeepEqual(resp.Report.Written, []string{"breakfast", "dinner"}) ||
		!reflect.DeepEqual(resp.Report.Failed, []string{"lunch"}) ||
		len(resp.Report.Skipped) != 0 {
		t.Errorf("report = %+v", resp.Report)
	}

	if len(archive.archived) != 1 || archive.archived[0].kind != "meal" || archive.archived[0].userID != "user-1" {
		t.Errorf("archived = %+v", archive.archived)
	}

	w = serve(router, http.MethodGet, "/api/meal-plan")
	var plan map[string]mealPlanEntry
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if len(plan) != 2 || plan["dinner"].Title != "Chili" {
		t.Errorf("plan = %+v", plan)
	}
}

func TestGenerateWorkoutPlan(t *testing.T) {
	exercises := &fakeExercises{results: map[string][]exercise{
		"chest":      {ex("Push-up", "chest")},
		"lats":       {ex("Row", "lats")},
		"quadriceps": {ex("Squat", "quadriceps")},
	}}
	h, _, archive := newTestHandler(&fakeRecipes{}, exercises)
	archive.err = errors.New("bucket missing")
	router := newTestRouter(h, "user-1")

	w := serve(router, http.MethodPost, "/api/workout-plan")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp planResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "complete" || len(resp.Report.Written) != 3 {
		t.Errorf("response = %+v", resp)
	}

	w = serve(router, http.MethodGet, "/api/workout-plan")
	var plan map[string][]workoutEntry
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if len(plan) != 3 || plan["Wednesday"][0].Name != "Squat" {
		t.Errorf("plan = %+v", plan)
	}
	if got := plan["Monday"][0].Sets; len(got) != 3 || got[0].RestAfterSet != 120 {
		t.Errorf("sets = %+v", got)
	}
}

func TestGeneratePlan_NoPreferences(t *testing.T) {
	h, store, _ := newTestHandler(&fakeRecipes{}, &fakeExercises{})
	router := newTestRouter(h, "stranger")

	for _, path := range []string{"/api/meal-plan", "/api/workout-plan"} {
		w := serve(router, http.MethodPost, path)
		if w.Code != http.StatusNotFound {
			t.Errorf("POST %s status = %d, want 404", path, w.Code)
		}
	}
	if store.writes != 0 {
		t.Errorf("writes = %d, want none", store.writes)
	}
}

func TestGetPlans_Empty(t *testing.T) {
	h, _, _ := newTestHandler(&fakeRecipes{}, &fakeExercises{})
	router := newTestRouter(h, "user-1")

	for _, path := range []string{"/api/meal-plan", "/api/workout-plan"} {
		w := serve(router, http.MethodGet, path)
		if w.Code != http.StatusOK || w.Body.String() != "{}" {
			t.Errorf("GET %s = %d %s, want 200 {}", path, w.Code, w.Body.String())
		}
	}
}

func TestArchivePlan_NilArchive(t *testing.T) {
	h := &Handler{}
	called := false
	h.archivePlan(context.Background(), "user-1", "meal", func(context.Context, string) (any, error) {
		called = true
		return nil, nil
	})
	if called {
		t.Error("loader should not run without an archive")
	}
}
