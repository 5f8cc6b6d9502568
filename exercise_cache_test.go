package main

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// mapExerciseCache is an in-memory exerciseCache.
type mapExerciseCache struct {
	data   map[string][]exercise
	getErr error
	sets   int
}

func (m *mapExerciseCache) Get(_ context.Context, muscle, difficulty string) ([]exercise, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[exerciseCacheKey(muscle, difficulty)]
	return v, ok, nil
}

func (m *mapExerciseCache) Set(_ context.Context, muscle, difficulty string, results []exercise) error {
	m.sets++
	m.data[exerciseCacheKey(muscle, difficulty)] = results
	return nil
}

func TestExerciseCacheKey(t *testing.T) {
	if got := exerciseCacheKey("biceps", "Beginner"); got != "exercises:biceps:Beginner" {
		t.Errorf("key = %q", got)
	}
}

func TestCachedExerciseSearcher(t *testing.T) {
	squat := ex("Squat", "quadriceps")

	t.Run("hit skips api", func(t *testing.T) {
		api := &fakeExercises{}
		cache := &mapExerciseCache{data: map[string][]exercise{
			"exercises:quadriceps:Beginner": {squat},
		}}
		cs := &cachedExerciseSearcher{next: api, cache: cache}

		got, err := cs.SearchExercises(context.Background(), "quadriceps", "Beginner")
		if err != nil || !reflect.DeepEqual(got, []exercise{squat}) {
			t.Errorf("got %v, %v", got, err)
		}
		if len(api.calls) != 0 {
			t.Errorf("api called %d times on a hit", len(api.calls))
		}
	})

	t.Run("miss stores result", func(t *testing.T) {
		api := &fakeExercises{results: map[string][]exercise{"quadriceps": {squat}}}
		cache := &mapExerciseCache{data: map[string][]exercise{}}
		cs := &cachedExerciseSearcher{next: api, cache: cache}

		for range 2 {
			got, err := cs.SearchExercises(context.Background(), "quadriceps", "Beginner")
			if err != nil || len(got) != 1 {
				t.Fatalf("got %v, %v", got, err)
			}
		}
		if len(api.calls) != 1 || cache.sets != 1 {
			t.Errorf("api calls = %d, sets = %d; want 1 and 1", len(api.calls), cache.sets)
		}
	})

	t.Run("cache error falls through", func(t *testing.T) {
		api := &fakeExercises{results: map[string][]exercise{"quadriceps": {squat}}}
		cache := &mapExerciseCache{data: map[string][]exercise{}, getErr: errors.New("connection refused")}
		cs := &cachedExerciseSearcher{next: api, cache: cache}

		got, err := cs.SearchExercises(context.Background(), "quadriceps", "Beginner")
		if err != nil || len(got) != 1 {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("api error not cached", func(t *testing.T) {
		api := &fakeExercises{errs: map[string]error{"quadriceps": errors.New("status 500")}}
		cache := &mapExerciseCache{data: map[string][]exercise{}}
		cs := &cachedExerciseSearcher{next: api, cache: cache}

		if _, err := cs.SearchExercises(context.Background(), "quadriceps", "Beginner"); err == nil {
			t.Error("expected api error")
		}
		if cache.sets != 0 {
			t.Errorf("sets = %d, want 0", cache.sets)
		}
	})
}
