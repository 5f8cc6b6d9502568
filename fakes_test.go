package main

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
)

/* ─── In-memory plan store ───────────────────────────────────────────── */

// memPlanStore mirrors pgPlanStore's merge semantics: each write replaces one
// key and leaves the rest of the document alone. failures[slot] makes the next
// N writes for that slot fail.
type memPlanStore struct {
	mu       sync.Mutex
	meals    map[string]map[string]mealPlanEntry
	workouts map[string]map[string][]workoutEntry
	failures map[string]int
	writes   int
}

func newMemPlanStore() *memPlanStore {
	return &memPlanStore{
		meals:    map[string]map[string]mealPlanEntry{},
		workouts: map[string]map[string][]workoutEntry{},
		failures: map[string]int{},
	}
}

var errStoreDown = errors.New("store unavailable")

func (m *memPlanStore) fail(slot string) bool {
	if m.failures[slot] > 0 {
		m.failures[slot]--
		return true
	}
	return false
}

func (m *memPlanStore) MergeMealPlanEntry(_ context.Context, userID, mealType string, entry mealPlanEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.fail(mealType) {
		return errStoreDown
	}
	if m.meals[userID] == nil {
		m.meals[userID] = map[string]mealPlanEntry{}
	}
	m.meals[userID][mealType] = entry
	return nil
}

func (m *memPlanStore) MergeWorkoutDay(_ context.Context, userID, weekday string, entries []workoutEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.fail(weekday) {
		return errStoreDown
	}
	if m.workouts[userID] == nil {
		m.workouts[userID] = map[string][]workoutEntry{}
	}
	m.workouts[userID][weekday] = entries
	return nil
}

func (m *memPlanStore) MealPlan(_ context.Context, userID string) (map[string]mealPlanEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]mealPlanEntry{}
	for k, v := range m.meals[userID] {
		out[k] = v
	}
	return out, nil
}

func (m *memPlanStore) WorkoutPlan(_ context.Context, userID string) (map[string][]workoutEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string][]workoutEntry{}
	for k, v := range m.workouts[userID] {
		out[k] = v
	}
	return out, nil
}

/* ─── Preference store ───────────────────────────────────────────────── */

type fakePreferenceStore struct {
	prefs    map[string]userPreferences
	getErr   error
	foods    []string
	foodsErr error
	saveErr  error
	saved    []string
}

func (f *fakePreferenceStore) Get(_ context.Context, userID string) (userPreferences, error) {
	if f.getErr != nil {
		return userPreferences{}, f.getErr
	}
	p, ok := f.prefs[userID]
	if !ok {
		return userPreferences{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakePreferenceStore) PreferredFoods(_ context.Context, _ string) ([]string, error) {
	if f.foodsErr != nil {
		return nil, f.foodsErr
	}
	return f.foods, nil
}

func (f *fakePreferenceStore) SaveQueryTerm(_ context.Context, _ string, term string) error {
	f.saved = append(f.saved, term)
	return f.saveErr
}

/* ─── External services ──────────────────────────────────────────────── */

// fakeRecipes answers by meal type and records every request.
type fakeRecipes struct {
	results  map[string][]recipeSummary
	errs     map[string]error
	requests []recipeSearchParams
}

func (f *fakeRecipes) SearchRecipes(_ context.Context, params recipeSearchParams) ([]recipeSummary, error) {
	f.requests = append(f.requests, params)
	if err := f.errs[params.MealType]; err != nil {
		return nil, err
	}
	return f.results[params.MealType], nil
}

// fakeExercises answers by muscle and records the (muscle, difficulty) calls.
type fakeExercises struct {
	results map[string][]exercise
	errs    map[string]error
	calls   [][2]string
}

func (f *fakeExercises) SearchExercises(_ context.Context, muscle, difficulty string) ([]exercise, error) {
	f.calls = append(f.calls, [2]string{muscle, difficulty})
	if err := f.errs[muscle]; err != nil {
		return nil, err
	}
	return f.results[muscle], nil
}

/* ─── Fixtures ───────────────────────────────────────────────────────── */

// samplePreferences is the worked example: 160 lb male, 68 in, 30 years,
// Moderate activity, aiming for 150 lb.
func samplePreferences() userPreferences {
	return userPreferences{
		UserID:             "user-1",
		Age:                30,
		HeightIn:           68,
		CurrentWeightLBS:   160,
		TargetWeightLBS:    150,
		Gender:             "Male",
		ActivityLevel:      "Moderate",
		Restrictions:       []string{"vegetarian", "gluten free"},
		Intolerances:       []string{"dairy"},
		DislikedFoods:      []string{"olives"},
		Allergies:          []string{"peanuts"},
		FitnessLevel:       "Beginner",
		WorkoutFrequency:   3,
		WorkoutDurationMin: 45,
	}
}

func recipe(title string) recipeSummary {
	return recipeSummary{ID: len(title), Title: title, Image: title + ".jpg", ReadyInMinutes: 20, Servings: 2, Summary: "<b>" + title + "</b> is tasty"}
}
