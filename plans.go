package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// planResponse is returned by both plan-generation endpoints.
type planResponse struct {
	Status string     `json:"status"`
	Report planReport `json:"report"`
}

// loadPreferencesOrAbort fetches the caller's preferences, writing the error
// response itself when it returns ok=false.
func (h *Handler) loadPreferencesOrAbort(c *gin.Context, userID string) (userPreferences, bool) {
	p, err := h.prefs.Get(c, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "preferences not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch preferences")
		}
		return userPreferences{}, false
	}
	return p, true
}

// archivePlan snapshots the user's stored plan document. Failures are logged.
func (h *Handler) archivePlan(ctx context.Context, userID, kind string, load func(context.Context, string) (any, error)) {
	if h.archive == nil {
		return
	}
	doc, err := load(ctx, userID)
	if err != nil {
		log.Printf("[archive] loading %s plan for user %s: %v", kind, userID, err)
		return
	}
	if err := h.archive.Archive(ctx, userID, kind, doc); err != nil {
		log.Printf("[archive] %v", err)
	}
}

// generateMealPlan runs the nutrition planner for the authenticated user.
// POST /api/meal-plan. The run is detached from request cancellation so a
// dropped connection doesn't leave a half-written plan.
func (h *Handler) generateMealPlan(c *gin.Context) {
	userID := c.GetString("user_id")
	p, ok := h.loadPreferencesOrAbort(c, userID)
	if !ok {
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	report := h.nutrition.createMealPlan(ctx, &p, userID)
	h.archivePlan(ctx, userID, "meal", func(ctx context.Context, id string) (any, error) {
		return h.plans.MealPlan(ctx, id)
	})

	c.JSON(http.StatusOK, planResponse{Status: report.status(), Report: report})
}

// generateWorkoutPlan runs the workout planner for the authenticated user.
// POST /api/workout-plan.
func (h *Handler) generateWorkoutPlan(c *gin.Context) {
	userID := c.GetString("user_id")
	p, ok := h.loadPreferencesOrAbort(c, userID)
	if !ok {
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	report := h.workouts.createWorkoutPlan(ctx, &p, userID)
	h.archivePlan(ctx, userID, "workout", func(ctx context.Context, id string) (any, error) {
		return h.plans.WorkoutPlan(ctx, id)
	})

	c.JSON(http.StatusOK, planResponse{Status: report.status(), Report: report})
}

// getMealPlan returns the stored meal plan keyed by meal type. Returns {} when
// nothing has been generated yet.
// GET /api/meal-plan.
func (h *Handler) getMealPlan(c *gin.Context) {
	plan, err := h.plans.MealPlan(c, c.GetString("user_id"))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meal plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// getWorkoutPlan returns the stored workout plan keyed by weekday.
// GET /api/workout-plan.
func (h *Handler) getWorkoutPlan(c *gin.Context) {
	plan, err := h.plans.WorkoutPlan(c, c.GetString("user_id"))
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch workout plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}
