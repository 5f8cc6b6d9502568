package main

import "math"

// activityMultipliers maps activity level to its energy multiplier. Also the
// set of valid levels for patchPreferences.
var activityMultipliers = map[string]float64{
	"Sedentary": 1.2,
	"Light":     1.375,
	"Moderate":  1.55,
	"Vigorous":  1.725,
}

// defaultActivityMultiplier applies when the stored level is absent or unknown.
const defaultActivityMultiplier = 1.2

// calorieAdjustment is added when gaining and subtracted when losing.
const calorieAdjustment = 500.0

// caloricTarget is derived on demand and never persisted directly.
type caloricTarget struct {
	BMR      float64     `json:"bmr"`
	Calories float64     `json:"calories"`
	Macros   macroRanges `json:"macros"`
}

// macroRanges are rounded gram bounds (calories for the first pair) used as
// recipe search filters.
type macroRanges struct {
	MinCalories int `json:"min_calories"`
	MaxCalories int `json:"max_calories"`
	MinProtein  int `json:"min_protein"`
	MaxProtein  int `json:"max_protein"`
	MinFat      int `json:"min_fat"`
	MaxFat      int `json:"max_fat"`
	MinCarbs    int `json:"min_carbs"`
	MaxCarbs    int `json:"max_carbs"`
}

// basalMetabolicRate is the Mifflin-St Jeor form applied directly to the stored
// pounds and inches. No unit conversion happens here.
func basalMetabolicRate(p *userPreferences) float64 {
	bmr := 10*p.CurrentWeightLBS + 6.25*float64(p.HeightIn) - 5*float64(p.Age)
	if p.Gender == "Male" {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr
}

// calculateCaloricNeeds returns the daily calorie target: BMR times the
// activity multiplier, then -500 when current weight is above target and +500
// otherwise. Pure; it never fails and performs no plausibility checks.
func calculateCaloricNeeds(p *userPreferences) float64 {
	mult, found := activityMultipliers[p.ActivityLevel]
	if !found {
		mult = defaultActivityMultiplier
	}

	adjustment := calorieAdjustment
	if p.CurrentWeightLBS > p.TargetWeightLBS {
		adjustment = -calorieAdjustment
	}
	return basalMetabolicRate(p)*mult + adjustment
}

// deriveMacroRanges computes ±10% calorie bounds and percentage bands for each
// macro: protein 15–25% (4 kcal/g), fat 20–30% (9 kcal/g), carbs 45–55%
// (4 kcal/g). Every bound scales linearly with calories.
func deriveMacroRanges(calories float64) macroRanges {
	grams := func(pct, kcalPerGram float64) int {
		return int(math.Round(calories * pct / kcalPerGram))
	}
	return macroRanges{
		MinCalories: int(math.Round(calories * 0.9)),
		MaxCalories: int(math.Round(calories * 1.1)),
		MinProtein:  grams(0.15, 4),
		MaxProtein:  grams(0.25, 4),
		MinFat:      grams(0.20, 9),
		MaxFat:      grams(0.30, 9),
		MinCarbs:    grams(0.45, 4),
		MaxCarbs:    grams(0.55, 4),
	}
}

// computeCaloricTarget bundles BMR, calorie target and macro bands.
func computeCaloricTarget(p *userPreferences) caloricTarget {
	calories := calculateCaloricNeeds(p)
	return caloricTarget{
		BMR:      basalMetabolicRate(p),
		Calories: calories,
		Macros:   deriveMacroRanges(calories),
	}
}
