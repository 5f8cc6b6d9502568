package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. IDs are opaque strings (UUIDs in practice).
// AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        string     `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userPreferences maps to user_preferences. One row per user holding the
// physical, dietary and workout inputs for both planners. Height is inches and
// weights are pounds; the calculators use them without conversion.
type userPreferences struct {
	UserID           string  `json:"user_id"            db:"user_id"`
	Age              int     `json:"age"                db:"age"`
	HeightIn         int     `json:"height_in"          db:"height_in"`
	CurrentWeightLBS float64 `json:"current_weight_lbs" db:"current_weight_lbs"`
	TargetWeightLBS  float64 `json:"target_weight_lbs"  db:"target_weight_lbs"`
	Gender           string  `json:"gender"             db:"gender"`
	ActivityLevel    string  `json:"activity_level"     db:"activity_level"`

	// Physique descriptors are advisory and never feed the arithmetic.
	BodyType string `json:"body_type" db:"body_type"`
	BodyGoal string `json:"body_goal" db:"body_goal"`

	Restrictions  []string `json:"restrictions"   db:"restrictions"`
	Intolerances  []string `json:"intolerances"   db:"intolerances"`
	DislikedFoods []string `json:"disliked_foods" db:"disliked_foods"`
	Allergies     []string `json:"allergies"      db:"allergies"`

	FitnessLevel       string `json:"fitness_level"        db:"fitness_level"`
	WorkoutFrequency   int    `json:"workout_frequency"    db:"workout_frequency"`
	WorkoutDurationMin int    `json:"workout_duration_min" db:"workout_duration_min"`

	PreferredFoods []string   `json:"preferred_foods" db:"preferred_foods"`
	CachedQuery    string     `json:"cached_query"    db:"cached_query"`
	SetupComplete  bool       `json:"setup_complete"  db:"setup_complete"`
	UpdatedAt      *time.Time `json:"updated_at"      db:"updated_at"`
}

// patchPreferencesRequest is the request body for PATCH /api/preferences.
// All fields are pointers; only non-nil fields get written to the database.
type patchPreferencesRequest struct {
	Age                *int      `json:"age"`
	HeightIn           *int      `json:"height_in"`
	CurrentWeightLBS   *float64  `json:"current_weight_lbs"`
	TargetWeightLBS    *float64  `json:"target_weight_lbs"`
	Gender             *string   `json:"gender"`
	ActivityLevel      *string   `json:"activity_level"`
	BodyType           *string   `json:"body_type"`
	BodyGoal           *string   `json:"body_goal"`
	Restrictions       *[]string `json:"restrictions"`
	Intolerances       *[]string `json:"intolerances"`
	DislikedFoods      *[]string `json:"disliked_foods"`
	Allergies          *[]string `json:"allergies"`
	FitnessLevel       *string   `json:"fitness_level"`
	WorkoutFrequency   *int      `json:"workout_frequency"`
	WorkoutDurationMin *int      `json:"workout_duration_min"`
	PreferredFoods     *[]string `json:"preferred_foods"`
	SetupComplete      *bool     `json:"setup_complete"`
}

// weightEntry maps to weight_log. One row per user per date.
type weightEntry struct {
	ID        int        `json:"id" db:"id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Date      DateOnly   `json:"date" db:"date"`
	WeightLBS float64    `json:"weight_lbs" db:"weight_lbs"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

/* ─── Plan documents ─────────────────────────────────────────────────── */

// mealPlanEntry is the value stored under one meal-type key of a user's
// meal plan document.
type mealPlanEntry struct {
	RecipeID       int    `json:"recipe_id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	ReadyInMinutes int    `json:"ready_in_minutes"`
	Servings       int    `json:"servings"`
	Summary        string `json:"summary"`
}

// workoutSet is one synthesized set. Times are seconds.
type workoutSet struct {
	Reps         int `json:"reps"`
	TimePerRep   int `json:"time_per_rep"`
	RestAfterSet int `json:"rest_after_set"`
}

// workoutEntry is one exercise in a weekday's list of the workout plan document.
type workoutEntry struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	Muscle     string       `json:"muscle"`
	Difficulty string       `json:"difficulty"`
	Equipment  string       `json:"equipment,omitempty"`
	Sets       []workoutSet `json:"sets"`
}

// planReport records what one planner run did with each slot (meal type or
// weekday). Slots appear in the order they were attempted.
type planReport struct {
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

// status summarizes the run: "failed" only when every attempted slot failed.
func (r planReport) status() string {
	switch {
	case len(r.Failed) == 0:
		return "complete"
	case len(r.Written) == 0 && len(r.Skipped) == 0:
		return "failed"
	default:
		return "partial"
	}
}

// newPlanReport returns a report with non-nil slices so JSON renders [] not null.
func newPlanReport() planReport {
	return planReport{Written: []string{}, Skipped: []string{}, Failed: []string{}}
}
