package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
)

// newHandler wires stores, external clients and planners from cfg.
func newHandler(cfg config) *Handler {
	pool := getDBPool(cfg.DBURL)
	prefs := &pgPreferenceStore{db: pool}
	plans := &pgPlanStore{db: pool}

	var exercises exerciseSearcher = newExerciseClient(cfg.ExerciseAPIURL, cfg.ExerciseAPIKey)
	if cfg.RedisURL != "" {
		cache, err := newRedisExerciseCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		exercises = &cachedExerciseSearcher{next: exercises, cache: cache}
		fmt.Println("Exercise cache ready!")
	}

	h := &Handler{
		db:        pool,
		prefs:     prefs,
		plans:     plans,
		nutrition: newNutritionPlanner(newRecipeClient(cfg.RecipeAPIURL, cfg.RecipeAPIKey), prefs, plans),
		workouts:  newWorkoutPlanner(exercises, plans),
	}

	if cfg.S3Bucket != "" {
		archive, err := newS3PlanArchive(context.Background(), cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		h.archive = archive
		fmt.Println("Plan archive ready!")
	}
	return h
}

func main() {
	log.SetPrefix("lg/fitplan-go-api: ")
	log.SetFlags(0)

	cfg := loadConfig()
	h := newHandler(cfg)

	fmt.Println("Starting gin app...")

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
