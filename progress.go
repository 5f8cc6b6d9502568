package main

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// progressSummary joins the preference, weight-log and plan documents into
// the numbers shown on the progress screen. Weight fields are nil when no
// entries fall in the range.
type progressSummary struct {
	StartWeightLBS     *float64      `json:"start_weight_lbs"`
	LatestWeightLBS    *float64      `json:"latest_weight_lbs"`
	TargetWeightLBS    float64       `json:"target_weight_lbs"`
	ChangeLBS          *float64      `json:"change_lbs"`
	RemainingLBS       float64       `json:"remaining_lbs"`
	PercentToGoal      *float64      `json:"percent_to_goal"`
	DaysTracked        int           `json:"days_tracked"`
	DailyCalorieTarget int           `json:"daily_calorie_target"`
	PlannedMeals       int           `json:"planned_meals"`
	PlannedWorkoutDays int           `json:"planned_workout_days"`
	PlannedExercises   int           `json:"planned_exercises"`
	PlannedWeeklySets  int           `json:"planned_weekly_sets"`
	Weights            []weightEntry `json:"weights"`
}

// computeProgress aggregates already-loaded documents. weights must be sorted
// by date ascending. Pure; no I/O.
func computeProgress(p *userPreferences, weights []weightEntry, meals map[string]mealPlanEntry, workouts map[string][]workoutEntry) progressSummary {
	s := progressSummary{
		TargetWeightLBS:    p.TargetWeightLBS,
		DaysTracked:        len(weights),
		DailyCalorieTarget: int(math.Round(calculateCaloricNeeds(p))),
		PlannedMeals:       len(meals),
		Weights:            weights,
	}
	if s.Weights == nil {
		s.Weights = []weightEntry{}
	}

	// Merge-writes never remove weekday keys, so days past the current
	// frequency may be leftovers from an older schedule and are not counted.
	for day := range distributeWorkoutDays(p.WorkoutFrequency, muscleGroupCatalog) {
		entries, ok := workouts[day]
		if !ok {
			continue
		}
		s.PlannedWorkoutDays++
		s.PlannedExercises += len(entries)
		for _, e := range entries {
			s.PlannedWeeklySets += len(e.Sets)
		}
	}

	current := p.CurrentWeightLBS
	if len(weights) > 0 {
		first := weights[0].WeightLBS
		latest := weights[len(weights)-1].WeightLBS
		change := latest - first
		s.StartWeightLBS = &first
		s.LatestWeightLBS = &latest
		s.ChangeLBS = &change
		current = latest

		// Share of the start→target distance covered so far, clamped to 0–100.
		if total := first - p.TargetWeightLBS; total != 0 {
			pct := (first - latest) / total * 100
			pct = math.Max(0, math.Min(100, pct))
			s.PercentToGoal = &pct
		}
	}
	s.RemainingLBS = math.Abs(current - p.TargetWeightLBS)

	return s
}

// getProgress returns progress metrics for [start, end].
// GET /api/progress?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Plans are the current documents; only the weight log is range-filtered.
func (h *Handler) getProgress(c *gin.Context) {
	userID := c.GetString("user_id")
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	p, ok := h.loadPreferencesOrAbort(c, userID)
	if !ok {
		return
	}

	weights, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}

	meals, err := h.plans.MealPlan(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meal plan")
		return
	}
	workouts, err := h.plans.WorkoutPlan(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch workout plan")
		return
	}

	c.JSON(http.StatusOK, computeProgress(&p, weights, meals, workouts))
}
