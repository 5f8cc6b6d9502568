package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// validGenders and validFitnessLevels are the accepted enum values. Fitness
// level is sent verbatim to the exercise catalog as its difficulty filter.
var validGenders = map[string]bool{"Male": true, "Female": true, "Other": true}

var validFitnessLevels = map[string]bool{"Beginner": true, "Intermediate": true, "Expert": true}

const (
	minWorkoutFrequency = 1
	maxWorkoutFrequency = 14
)

// preferredFoodStore is the slice of the preferences store the nutrition
// planner needs for query-term rotation.
type preferredFoodStore interface {
	PreferredFoods(ctx context.Context, userID string) ([]string, error)
	SaveQueryTerm(ctx context.Context, userID, term string) error
}

// preferenceStore reads per-user preference documents.
type preferenceStore interface {
	preferredFoodStore
	Get(ctx context.Context, userID string) (userPreferences, error)
}

/* ─── Postgres implementation ───────────────────────────────────────── */

type pgPreferenceStore struct {
	db *pgxpool.Pool
}

func (s *pgPreferenceStore) Get(ctx context.Context, userID string) (userPreferences, error) {
	return queryOne[userPreferences](s.db, ctx,
		"SELECT * FROM user_preferences WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
}

func (s *pgPreferenceStore) PreferredFoods(ctx context.Context, userID string) ([]string, error) {
	var foods []string
	err := s.db.QueryRow(ctx,
		"SELECT preferred_foods FROM user_preferences WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID}).Scan(&foods)
	if err != nil {
		return nil, fmt.Errorf("load preferred foods: %w", err)
	}
	return foods, nil
}

// SaveQueryTerm writes only cached_query; other preference fields are untouched.
func (s *pgPreferenceStore) SaveQueryTerm(ctx context.Context, userID, term string) error {
	_, err := s.db.Exec(ctx,
		"UPDATE user_preferences SET cached_query = @term, updated_at = now() WHERE user_id = @userID",
		pgx.NamedArgs{"term": term, "userID": userID})
	if err != nil {
		return fmt.Errorf("save cached query: %w", err)
	}
	return nil
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// getPreferences returns the authenticated user's preferences.
// GET /api/preferences.
func (h *Handler) getPreferences(c *gin.Context) {
	userID := c.GetString("user_id")

	p, err := h.prefs.Get(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "preferences not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch preferences")
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// getTargets returns the calorie target and macro bands derived from the
// current preferences. GET /api/targets.
func (h *Handler) getTargets(c *gin.Context) {
	userID := c.GetString("user_id")

	p, ok := h.loadPreferencesOrAbort(c, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, computeCaloricTarget(&p))
}

// validatePreferencesPatch rejects enum and range violations before anything
// is written.
func validatePreferencesPatch(body *patchPreferencesRequest) error {
	if body.Gender != nil && !validGenders[*body.Gender] {
		return errors.New("gender must be one of: Male, Female, Other")
	}
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			return errors.New("activity_level must be one of: Sedentary, Light, Moderate, Vigorous")
		}
	}
	if body.FitnessLevel != nil && !validFitnessLevels[*body.FitnessLevel] {
		return errors.New("fitness_level must be one of: Beginner, Intermediate, Expert")
	}
	if body.WorkoutFrequency != nil &&
		(*body.WorkoutFrequency < minWorkoutFrequency || *body.WorkoutFrequency > maxWorkoutFrequency) {
		return fmt.Errorf("workout_frequency must be between %d and %d", minWorkoutFrequency, maxWorkoutFrequency)
	}
	return nil
}

// preferencesSetClauses builds the SET list for a merge-write. Only fields the
// client sent appear; the returned args always include userID.
func preferencesSetClauses(userID string, body *patchPreferencesRequest) ([]string, pgx.NamedArgs) {
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	add := func(column, arg string, value any) {
		setClauses = append(setClauses, column+" = @"+arg)
		args[arg] = value
	}

	if body.Age != nil {
		add("age", "age", *body.Age)
	}
	if body.HeightIn != nil {
		add("height_in", "heightIn", *body.HeightIn)
	}
	if body.CurrentWeightLBS != nil {
		add("current_weight_lbs", "currentWeightLBS", *body.CurrentWeightLBS)
	}
	if body.TargetWeightLBS != nil {
		add("target_weight_lbs", "targetWeightLBS", *body.TargetWeightLBS)
	}
	if body.Gender != nil {
		add("gender", "gender", *body.Gender)
	}
	if body.ActivityLevel != nil {
		add("activity_level", "activityLevel", *body.ActivityLevel)
	}
	if body.BodyType != nil {
		add("body_type", "bodyType", *body.BodyType)
	}
	if body.BodyGoal != nil {
		add("body_goal", "bodyGoal", *body.BodyGoal)
	}
	if body.Restrictions != nil {
		add("restrictions", "restrictions", nonNil(*body.Restrictions))
	}
	if body.Intolerances != nil {
		add("intolerances", "intolerances", nonNil(*body.Intolerances))
	}
	if body.DislikedFoods != nil {
		add("disliked_foods", "dislikedFoods", nonNil(*body.DislikedFoods))
	}
	if body.Allergies != nil {
		add("allergies", "allergies", nonNil(*body.Allergies))
	}
	if body.FitnessLevel != nil {
		add("fitness_level", "fitnessLevel", *body.FitnessLevel)
	}
	if body.WorkoutFrequency != nil {
		add("workout_frequency", "workoutFrequency", *body.WorkoutFrequency)
	}
	if body.WorkoutDurationMin != nil {
		add("workout_duration_min", "workoutDurationMin", *body.WorkoutDurationMin)
	}
	if body.PreferredFoods != nil {
		add("preferred_foods", "preferredFoods", nonNil(*body.PreferredFoods))
	}
	if body.SetupComplete != nil {
		add("setup_complete", "setupComplete", *body.SetupComplete)
	}
	return setClauses, args
}

// nonNil keeps NOT NULL array columns from receiving NULL for "[]" bodies.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// patchPreferences updates only the provided preference fields.
// PATCH /api/preferences. Pointer fields distinguish "not provided" from zero.
func (h *Handler) patchPreferences(c *gin.Context) {
	userID := c.GetString("user_id")

	var body patchPreferencesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validatePreferencesPatch(&body); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	setClauses, args := preferencesSetClauses(userID, &body)
	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE user_preferences SET " +
		strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING *"

	p, err := queryOne[userPreferences](h.db, c, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "preferences not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update preferences")
		}
		return
	}

	c.JSON(http.StatusOK, p)
}
