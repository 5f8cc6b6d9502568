package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// planStore persists the per-user plan documents. Merge methods update a
// single key and must leave every other key of the document untouched.
type planStore interface {
	MergeMealPlanEntry(ctx context.Context, userID, mealType string, entry mealPlanEntry) error
	MergeWorkoutDay(ctx context.Context, userID, weekday string, entries []workoutEntry) error
	MealPlan(ctx context.Context, userID string) (map[string]mealPlanEntry, error)
	WorkoutPlan(ctx context.Context, userID string) (map[string][]workoutEntry, error)
}

// defaultRetryDelay is the pause before the single retry of a failed write.
const defaultRetryDelay = 250 * time.Millisecond

// mergeWithRetry runs write once and retries it one time after delay.
// The second error, if any, is returned.
func mergeWithRetry(ctx context.Context, delay time.Duration, slot string, write func(context.Context) error) error {
	err := write(ctx)
	if err == nil {
		return nil
	}
	log.Printf("[planStore] write for %s failed, retrying: %v", slot, err)
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return write(ctx)
}

/* ─── Postgres implementation ───────────────────────────────────────── */

// pgPlanStore keeps each plan as one JSONB document per user. Keys are meal
// types (meal_plans) or weekday names (workout_plans).
type pgPlanStore struct {
	db *pgxpool.Pool
}

const (
	mealPlansTable    = "meal_plans"
	workoutPlansTable = "workout_plans"
)

// mergeKey upserts {key: value} into the user's document using jsonb ||,
// so only that key is replaced.
func (s *pgPlanStore) mergeKey(ctx context.Context, table, userID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s value: %w", key, err)
	}
	sql := fmt.Sprintf(
		`INSERT INTO %[1]s (user_id, plan)
		 VALUES (@userID, jsonb_build_object(@key::text, @value::jsonb))
		 ON CONFLICT (user_id) DO UPDATE
		 SET plan = %[1]s.plan || EXCLUDED.plan, updated_at = now()`, table)
	_, err = s.db.Exec(ctx, sql, pgx.NamedArgs{"userID": userID, "key": key, "value": string(raw)})
	if err != nil {
		return fmt.Errorf("merge %s.%s: %w", table, key, err)
	}
	return nil
}

func (s *pgPlanStore) MergeMealPlanEntry(ctx context.Context, userID, mealType string, entry mealPlanEntry) error {
	return s.mergeKey(ctx, mealPlansTable, userID, mealType, entry)
}

func (s *pgPlanStore) MergeWorkoutDay(ctx context.Context, userID, weekday string, entries []workoutEntry) error {
	return s.mergeKey(ctx, workoutPlansTable, userID, weekday, entries)
}

// loadPlan decodes the user's document into dst. A missing row leaves dst empty.
func (s *pgPlanStore) loadPlan(ctx context.Context, table, userID string, dst any) error {
	var raw []byte
	err := s.db.QueryRow(ctx,
		fmt.Sprintf("SELECT plan::text FROM %s WHERE user_id = @userID", table),
		pgx.NamedArgs{"userID": userID}).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *pgPlanStore) MealPlan(ctx context.Context, userID string) (map[string]mealPlanEntry, error) {
	plan := map[string]mealPlanEntry{}
	if err := s.loadPlan(ctx, mealPlansTable, userID, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *pgPlanStore) WorkoutPlan(ctx context.Context, userID string) (map[string][]workoutEntry, error) {
	plan := map[string][]workoutEntry{}
	if err := s.loadPlan(ctx, workoutPlansTable, userID, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}
