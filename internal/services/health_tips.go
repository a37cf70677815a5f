package services

import "github.com/terraincognita07/cyclecare/internal/models"

const (
	TipCategoryPainRelief = "pain-relief"
	TipCategoryExercise   = "exercise"
	TipCategoryHydration  = "hydration"
	TipCategoryRest       = "rest"
	TipCategoryNutrition  = "nutrition"
	TipCategoryMood       = "mood"
)

// HealthTip carries message keys; Title and Description are localized by the
// presentation layer.
type HealthTip struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

type symptomTipRule struct {
	symptom string
	tips    []HealthTip
}

var symptomTipRules = []symptomTipRule{
	{symptom: models.SymptomCramps, tips: []HealthTip{
		newHealthTip("cramps-heat", "thermometer", TipCategoryPainRelief),
		newHealthTip("cramps-exercise", "walking", TipCategoryExercise),
	}},
	{symptom: models.SymptomHeadache, tips: []HealthTip{
		newHealthTip("headache-hydration", "droplet", TipCategoryHydration),
		newHealthTip("headache-rest", "bed", TipCategoryRest),
	}},
	{symptom: models.SymptomBloating, tips: []HealthTip{
		newHealthTip("bloating-diet", "apple", TipCategoryNutrition),
	}},
	{symptom: models.SymptomFatigue, tips: []HealthTip{
		newHealthTip("fatigue-nutrition", "battery", TipCategoryNutrition),
	}},
}

var generalNutritionTip = newHealthTip("general-nutrition", "apple", TipCategoryNutrition)

var moodTips = map[string]HealthTip{
	models.MoodSad:     newHealthTip("mood-sad", "heart", TipCategoryMood),
	models.MoodAngry:   newHealthTip("mood-angry", "wind", TipCategoryMood),
	models.MoodTired:   newHealthTip("mood-tired", "moon", TipCategoryMood),
	models.MoodAnxious: newHealthTip("mood-anxious", "leaf", TipCategoryMood),
	models.MoodHappy:   newHealthTip("mood-happy", "sun", TipCategoryMood),
}

// RecommendedFoods and FoodsToAvoid are message keys under "food.".
var (
	RecommendedFoods = []string{
		"food.bananas",
		"food.dark_chocolate",
		"food.green_tea",
		"food.leafy_greens",
		"food.nuts_seeds",
		"food.whole_grains",
		"food.fatty_fish",
	}
	FoodsToAvoid = []string{
		"food.caffeine",
		"food.sodium",
		"food.processed",
		"food.sugar",
		"food.alcohol",
		"food.fried",
	}
)

func newHealthTip(id string, icon string, category string) HealthTip {
	return HealthTip{
		ID:          id,
		Title:       "tip." + id + ".title",
		Description: "tip." + id + ".description",
		Icon:        icon,
		Category:    category,
	}
}

// HealthRecommendations returns symptom-specific tips in a fixed order
// followed by the general nutrition tip, which is always present.
func HealthRecommendations(symptoms []string) []HealthTip {
	present := make(map[string]struct{}, len(symptoms))
	for _, symptom := range symptoms {
		present[symptom] = struct{}{}
	}

	tips := make([]HealthTip, 0, 7)
	for _, rule := range symptomTipRules {
		if _, ok := present[rule.symptom]; ok {
			tips = append(tips, rule.tips...)
		}
	}
	return append(tips, generalNutritionTip)
}

func MoodRecommendation(mood string) (HealthTip, bool) {
	tip, ok := moodTips[mood]
	return tip, ok
}
