package main

import (
	"context"
	"log"
	"time"
)

// weekdays is the canonical Monday-first week. Scheduled days are always a
// prefix of it.
var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// muscleGroup is one focus area and the catalog muscles searched for it.
type muscleGroup struct {
	Name    string   `json:"name"`
	Muscles []string `json:"muscles"`
}

// muscleGroupCatalog is assigned round-robin across the scheduled days.
var muscleGroupCatalog = []muscleGroup{
	{Name: "Upper Body Push", Muscles: []string{"chest", "triceps"}},
	{Name: "Upper Body Pull", Muscles: []string{"lats", "middle_back", "biceps"}},
	{Name: "Legs & Core", Muscles: []string{"quadriceps", "hamstrings", "abdominals"}},
}

// Every synthesized exercise gets the same sets regardless of level or duration.
const (
	setsPerExercise = 3
	repsPerSet      = 15
	secondsPerRep   = 4
	restAfterSetSec = 120
)

// distributeWorkoutDays maps the first frequency weekdays to muscle groups in
// catalog order, wrapping around. Frequencies above 7 are clamped to the week;
// zero, negative, or an empty catalog schedules nothing. Days not in the map
// are rest days.
func distributeWorkoutDays(frequency int, catalog []muscleGroup) map[string]muscleGroup {
	schedule := make(map[string]muscleGroup)
	if len(catalog) == 0 || frequency <= 0 {
		return schedule
	}
	if frequency > len(weekdays) {
		frequency = len(weekdays)
	}
	for i, day := range weekdays[:frequency] {
		schedule[day] = catalog[i%len(catalog)]
	}
	return schedule
}

// fixedSets returns a fresh slice so entries never share backing arrays.
func fixedSets() []workoutSet {
	sets := make([]workoutSet, setsPerExercise)
	for i := range sets {
		sets[i] = workoutSet{Reps: repsPerSet, TimePerRep: secondsPerRep, RestAfterSet: restAfterSetSec}
	}
	return sets
}

// workoutPlanner generates the weekly workout plan.
type workoutPlanner struct {
	exercises  exerciseSearcher
	plans      planStore
	catalog    []muscleGroup
	retryDelay time.Duration
}

func newWorkoutPlanner(exercises exerciseSearcher, plans planStore) *workoutPlanner {
	return &workoutPlanner{
		exercises:  exercises,
		plans:      plans,
		catalog:    muscleGroupCatalog,
		retryDelay: defaultRetryDelay,
	}
}

// fetchExercises queries each muscle in turn and concatenates the results. A
// failing muscle is logged and skipped. Exercises that show up under more than
// one muscle are kept as duplicates.
func (wp *workoutPlanner) fetchExercises(ctx context.Context, muscles []string, fitnessLevel string) []exercise {
	all, _ := wp.searchMuscles(ctx, muscles, fitnessLevel)
	return all
}

// searchMuscles is fetchExercises plus the number of muscles whose search failed.
func (wp *workoutPlanner) searchMuscles(ctx context.Context, muscles []string, fitnessLevel string) ([]exercise, int) {
	var all []exercise
	failed := 0
	for _, muscle := range muscles {
		results, err := wp.exercises.SearchExercises(ctx, muscle, fitnessLevel)
		if err != nil {
			log.Printf("[workoutPlan] exercise search for %s (%s) failed: %v", muscle, fitnessLevel, err)
			failed++
			continue
		}
		all = append(all, results...)
	}
	return all, failed
}

func toWorkoutEntries(exercises []exercise) []workoutEntry {
	entries := make([]workoutEntry, 0, len(exercises))
	for _, ex := range exercises {
		entries = append(entries, workoutEntry{
			ID:         ex.ID,
			Name:       ex.Name,
			Type:       ex.Type,
			Muscle:     ex.Muscle,
			Difficulty: ex.Difficulty,
			Equipment:  ex.Equipment,
			Sets:       fixedSets(),
		})
	}
	return entries
}

// createWorkoutPlan fills each scheduled weekday, in week order, with the
// exercises for its muscle group and merge-writes them under the weekday key.
// A day with no exercises gets no key. Other weekdays are left as they were.
func (wp *workoutPlanner) createWorkoutPlan(ctx context.Context, p *userPreferences, userID string) planReport {
	report := newPlanReport()
	schedule := distributeWorkoutDays(p.WorkoutFrequency, wp.catalog)

	for _, day := range weekdays {
		group, ok := schedule[day]
		if !ok {
			continue
		}

		exercises, failedMuscles := wp.searchMuscles(ctx, group.Muscles, p.FitnessLevel)
		if len(exercises) == 0 {
			log.Printf("[workoutPlan] no exercises for user %s on %s (%s)", userID, day, group.Name)
			if len(group.Muscles) > 0 && failedMuscles == len(group.Muscles) {
				report.Failed = append(report.Failed, day)
			} else {
				report.Skipped = append(report.Skipped, day)
			}
			continue
		}

		entries := toWorkoutEntries(exercises)
		err := mergeWithRetry(ctx, wp.retryDelay, day, func(ctx context.Context) error {
			return wp.plans.MergeWorkoutDay(ctx, userID, day, entries)
		})
		if err != nil {
			log.Printf("[workoutPlan] saving %s for user %s failed: %v", day, userID, err)
			report.Failed = append(report.Failed, day)
			continue
		}
		report.Written = append(report.Written, day)
	}

	return report
}
