package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// config is read once at startup. Optional integrations (Redis, S3) are
// disabled when their settings are empty.
type config struct {
	DBURL          string
	Port           string
	RedisURL       string
	RecipeAPIURL   string
	RecipeAPIKey   string
	ExerciseAPIURL string
	ExerciseAPIKey string
	S3Bucket       string
	S3Region       string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadConfig loads .env if present, then reads the environment. A missing
// .env is normal in deployed environments.
func loadConfig() config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env loaded: %v", err)
	}
	return config{
		DBURL:          os.Getenv("DB_URL"),
		Port:           envOr("PORT", "3000"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RecipeAPIURL:   envOr("RECIPE_API_URL", "https://api.spoonacular.com"),
		RecipeAPIKey:   os.Getenv("RECIPE_API_KEY"),
		ExerciseAPIURL: envOr("EXERCISE_API_URL", "https://api.api-ninjas.com"),
		ExerciseAPIKey: os.Getenv("EXERCISE_API_KEY"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       envOr("S3_REGION", os.Getenv("AWS_REGION")),
	}
}
