package main

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// mealTypes are planned in this order on every run.
var mealTypes = []string{"breakfast", "lunch", "dinner"}

// Fixed complexSearch filters.
const (
	recipeMaxReadyTime = 60
	recipeResultCount  = 1
)

var errNoPreferredFoods = errors.New("no preferred foods stored")

// nutritionPlanner generates the per-user meal plan. Collaborators are
// injected; pick chooses an index in [0, n) and defaults to math/rand.
type nutritionPlanner struct {
	recipes    recipeSearcher
	prefs      preferredFoodStore
	plans      planStore
	pick       func(n int) int
	retryDelay time.Duration
}

func newNutritionPlanner(recipes recipeSearcher, prefs preferredFoodStore, plans planStore) *nutritionPlanner {
	return &nutritionPlanner{
		recipes:    recipes,
		prefs:      prefs,
		plans:      plans,
		pick:       rand.IntN,
		retryDelay: defaultRetryDelay,
	}
}

// selectQueryTerm picks one stored preferred food at random and writes it back
// as the cached query. The read and the write are separate statements, so two
// concurrent runs for one user may interleave; the last write wins.
func (np *nutritionPlanner) selectQueryTerm(ctx context.Context, userID string) (string, error) {
	foods, err := np.prefs.PreferredFoods(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(foods) == 0 {
		return "", errNoPreferredFoods
	}
	term := foods[np.pick(len(foods))]
	if err := np.prefs.SaveQueryTerm(ctx, userID, term); err != nil {
		log.Printf("[mealPlan] saving query term for user %s failed: %v", userID, err)
	}
	return term, nil
}

// buildSearchParams assembles the recipe filters for one meal type. A failed
// preferred-food lookup leaves the query empty instead of failing the search.
func (np *nutritionPlanner) buildSearchParams(ctx context.Context, p *userPreferences, mealType, userID string) recipeSearchParams {
	query, err := np.selectQueryTerm(ctx, userID)
	if err != nil {
		log.Printf("[mealPlan] preferred food lookup for user %s (%s): %v; searching without a query", userID, mealType, err)
		query = ""
	}

	exclude := make([]string, 0, len(p.DislikedFoods)+len(p.Allergies))
	exclude = append(exclude, p.DislikedFoods...)
	exclude = append(exclude, p.Allergies...)

	return recipeSearchParams{
		Query:                query,
		Diet:                 strings.Join(p.Restrictions, ","),
		Intolerances:         strings.Join(p.Intolerances, ","),
		ExcludeIngredients:   strings.Join(exclude, ","),
		MealType:             mealType,
		Macros:               deriveMacroRanges(calculateCaloricNeeds(p)),
		InstructionsRequired: true,
		AddRecipeInformation: true,
		MaxReadyTime:         recipeMaxReadyTime,
		IgnorePantry:         false,
		Sort:                 "calories",
		SortDirection:        "asc",
		Number:               recipeResultCount,
	}
}

// createMealPlan searches one recipe per meal type and merge-writes the first
// hit under that meal type's key. Meal types are independent: a failure or an
// empty result for one never stops the others, and keys not written this run
// keep their previous values.
func (np *nutritionPlanner) createMealPlan(ctx context.Context, p *userPreferences, userID string) planReport {
	report := newPlanReport()

	for _, mealType := range mealTypes {
		params := np.buildSearchParams(ctx, p, mealType, userID)

		results, err := np.recipes.SearchRecipes(ctx, params)
		if err != nil {
			log.Printf("[mealPlan] recipe search for user %s (%s) failed: %v", userID, mealType, err)
			report.Failed = append(report.Failed, mealType)
			continue
		}
		if len(results) == 0 {
			log.Printf("[mealPlan] no recipes for user %s (%s)", userID, mealType)
			report.Skipped = append(report.Skipped, mealType)
			continue
		}

		entry := toMealPlanEntry(results[0])
		err = mergeWithRetry(ctx, np.retryDelay, mealType, func(ctx context.Context) error {
			return np.plans.MergeMealPlanEntry(ctx, userID, mealType, entry)
		})
		if err != nil {
			log.Printf("[mealPlan] saving %s for user %s failed: %v", mealType, userID, err)
			report.Failed = append(report.Failed, mealType)
			continue
		}
		report.Written = append(report.Written, mealType)
	}

	return report
}

func toMealPlanEntry(r recipeSummary) mealPlanEntry {
	return mealPlanEntry{
		RecipeID:       r.ID,
		Title:          r.Title,
		Image:          r.Image,
		ReadyInMinutes: r.ReadyInMinutes,
		Servings:       r.Servings,
		Summary:        stripHTML(r.Summary),
	}
}

// stripHTML returns the text content of an HTML fragment with entities
// decoded. Unparseable input is returned unchanged.
func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}
