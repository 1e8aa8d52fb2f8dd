// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package algorithms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// Wellness domain names.
const (
	DomainActivity    = "activity"
	DomainNutrition   = "nutrition"
	DomainSleep       = "sleep"
	DomainMindfulness = "mindfulness"
	DomainSocial      = "social"
	DomainFinancial   = "financial"
)

// domainItem is one entry of a fixed domain table. Only the fields a
// domain's rules read are set.
type domainItem struct {
	ID        string
	Name      string
	Duration  int // minutes; prep time for meals
	Intensity string
	BestTime  string
	MealType  string
	Energy    string
	Category  string
	Stages    []string
	Goals     []string
}

// domainRules scores and describes the items of one domain.
type domainRules struct {
	name  string
	items []domainItem

	// goalBonus is added when the item shares at least one goal with the user.
	goalBonus float64

	// bonus returns the context bonuses of an item.
	bonus func(it *domainItem, c *domainContext) float64

	reason func(it *domainItem) string
	action func(it *domainItem, c *domainContext) string
}

// domainContext is a request context with domain defaults applied.
type domainContext struct {
	recommend.RequestContext
}

func (c *domainContext) timeOfDay(def string) string {
	return orDefault(c.TimeOfDay, def)
}

func (c *domainContext) available(def int) int {
	if c.AvailableTime > 0 {
		return c.AvailableTime
	}
	return def
}

func orDefault(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}

// energyRank orders energy levels; unknown levels rank as medium.
func energyRank(level string) int {
	switch level {
	case "low":
		return 1
	case "high":
		return 3
	default:
		return 2
	}
}

func joinGoals(goals []string) string {
	return strings.Join(goals, ", ")
}

// wellnessDomains lists the built-in domains in scoring order.
var wellnessDomains = []domainRules{
	{
		name: DomainActivity,
		items: []domainItem{
			{ID: "morning_hiit", Name: "Morning HIIT", Duration: 20, Intensity: "high", BestTime: "morning", Goals: []string{"weight_loss", "energy"}},
			{ID: "strength_training", Name: "Strength Training", Duration: 45, Intensity: "medium", BestTime: "any", Goals: []string{"muscle_gain"}},
			{ID: "yoga_flow", Name: "Yoga Flow", Duration: 30, Intensity: "low", BestTime: "evening", Goals: []string{"flexibility", "stress_reduction"}},
			{ID: "bodyweight_circuit", Name: "Bodyweight Circuit", Duration: 25, Intensity: "medium", BestTime: "any", Goals: []string{"strength", "endurance"}},
			{ID: "walking_meditation", Name: "Mindful Walking", Duration: 15, Intensity: "low", BestTime: "any", Goals: []string{"mindfulness"}},
		},
		goalBonus: 0.4,
		bonus: func(it *domainItem, c *domainContext) float64 {
			var b float64
			if it.BestTime == "any" || it.BestTime == c.timeOfDay("any") {
				b += 0.2
			}
			if it.Duration <= c.available(60) {
				b += 0.3
			}
			return b
		},
		reason: func(it *domainItem) string {
			return fmt.Sprintf("%s - %dmin %s intensity workout", it.Name, it.Duration, it.Intensity)
		},
		action: func(it *domainItem, c *domainContext) string {
			return fmt.Sprintf("Perfect %s for your %s routine - builds %s", it.Name, c.timeOfDay("any"), joinGoals(it.Goals))
		},
	},
	{
		name: DomainNutrition,
		items: []domainItem{
			{ID: "protein_smoothie", Name: "Protein Smoothie", MealType: "snack", Duration: 5, Goals: []string{"muscle_recovery"}},
			{ID: "power_bowl", Name: "Power Bowl", MealType: "lunch", Duration: 20, Goals: []string{"balanced_nutrition"}},
			{ID: "salmon_dinner", Name: "Omega-3 Salmon", MealType: "dinner", Duration: 25, Goals: []string{"heart_health"}},
			{ID: "fiber_breakfast", Name: "High-Fiber Bowl", MealType: "breakfast", Duration: 10, Goals: []string{"digestive_health"}},
		},
		goalBonus: 0.3,
		bonus: func(it *domainItem, c *domainContext) float64 {
			var b float64
			if meal := orDefault(c.MealType, "any"); meal == "any" || meal == it.MealType {
				b += 0.3
			}
			if it.Duration <= c.available(30) {
				b += 0.2
			}
			return b
		},
		reason: func(it *domainItem) string {
			return fmt.Sprintf("%s - %dmin prep, supports %s", it.Name, it.Duration, joinGoals(it.Goals))
		},
		action: func(it *domainItem, _ *domainContext) string {
			return fmt.Sprintf("Nourish your body with %s - quick %d minute prep", it.Name, it.Duration)
		},
	},
	{
		name: DomainSleep,
		items: []domainItem{
			{ID: "muscle_relaxation", Name: "Progressive Muscle Relaxation", Duration: 15, BestTime: "bedtime", Goals: []string{"faster_onset"}},
			{ID: "blue_light_reduction", Name: "Blue Light Protocol", Duration: 60, BestTime: "evening", Goals: []string{"better_quality"}},
			{ID: "bedtime_routine", Name: "Bedtime Routine", Duration: 30, BestTime: "evening", Goals: []string{"consistency"}},
			{ID: "magnesium_guide", Name: "Magnesium Timing", Duration: 5, BestTime: "evening", Goals: []string{"deeper_sleep"}},
		},
		goalBonus: 0.3,
		bonus: func(it *domainItem, c *domainContext) float64 {
			var b float64
			if it.BestTime == c.timeOfDay("evening") {
				b += 0.3
			}
			if orDefault(c.StressLevel, "medium") == "high" && strings.Contains(strings.ToLower(it.Name), "relaxation") {
				b += 0.2
			}
			return b
		},
		reason: func(it *domainItem) string {
			return fmt.Sprintf("%s - %dmin technique for %s", it.Name, it.Duration, joinGoals(it.Goals))
		},
		action: func(it *domainItem, _ *domainContext) string {
			return fmt.Sprintf("Improve your sleep with %s - proven technique for better rest", it.Name)
		},
	},
	{
		name: DomainMindfulness,
		items: []domainItem{
			{ID: "breathing_meditation", Name: "5-Min Breathing", Duration: 5, Intensity: "low", Goals: []string{"stress_reduction"}},
			{ID: "body_scan", Name: "Body Scan", Duration: 20, Intensity: "medium", Goals: []string{"deep_relaxation"}},
			{ID: "mindful_walking", Name: "Mindful Walking", Duration: 15, Intensity: "low", Goals: []string{"present_awareness"}},
			{ID: "quick_stress_relief", Name: "Quick Stress Relief", Duration: 3, Intensity: "low", Goals: []string{"immediate_relief"}},
		},
		goalBonus: 0.2,
		bonus: func(it *domainItem, c *domainContext) float64 {
			var b float64
			if it.Duration <= c.available(10) {
				b += 0.3
			}
			if orDefault(c.StressLevel, "medium") == "high" && strings.Contains(joinGoals(it.Goals), "stress") {
				b += 0.3
			}
			return b
		},
		reason: func(it *domainItem) string {
			return fmt.Sprintf("%s - %dmin practice for %s", it.Name, it.Duration, joinGoals(it.Goals))
		},
		action: func(it *domainItem, _ *domainContext) string {
			return fmt.Sprintf("Find peace with %s - perfect for your current state", it.Name)
		},
	},
	{
		name: DomainSocial,
		items: []domainItem{
			{ID: "workout_buddy", Name: "Workout with Friend", Duration: 45, Energy: "medium", Goals: []string{"connection", "fitness"}},
			{ID: "volunteer_work", Name: "Community Volunteering", Duration: 120, Energy: "high", Goals: []string{"purpose", "community"}},
			{ID: "support_group", Name: "Wellness Support Group", Duration: 60, Energy: "medium", Goals: []string{"support", "shared_growth"}},
			{ID: "deep_conversation", Name: "Quality Time Conversation", Duration: 30, Energy: "low", Goals: []string{"intimacy", "bonding"}},
		},
		goalBonus: 0.3,
		bonus: func(it *domainItem, c *domainContext) float64 {
			var b float64
			if it.Duration <= c.available(60) {
				b += 0.3
			}
			if energyRank(it.Energy) <= energyRank(orDefault(c.EnergyLevel, "medium")) {
				b += 0.2
			}
			return b
		},
		reason: func(it *domainItem) string {
			return fmt.Sprintf("%s - %dmin social activity for %s", it.Name, it.Duration, joinGoals(it.Goals))
		},
		action: func(it *domainItem, _ *domainContext) string {
			return fmt.Sprintf("Connect and grow through %s - meaningful social wellness", it.Name)
		},
	},
	{
		name: DomainFinancial,
		items: []domainItem{
			{ID: "emergency_fund", Name: "Emergency Fund Builder", Category: "saving", Stages: []string{"all"}, Goals: []string{"security"}},
			{ID: "mindful_spending", Name: "Mindful Spending Tracker", Category: "budgeting", Stages: []string{"all"}, Goals: []string{"awareness"}},
			{ID: "investment_plan", Name: "Stress-Free Investing", Category: "investing", Stages: []string{"adult", "middle_aged"}, Goals: []string{"growth"}},
			{ID: "debt_wellness", Name: "Wellness Debt Strategy", Category: "debt", Stages: []string{"all"}, Goals: []string{"freedom"}},
		},
		goalBonus: 0.3,
		bonus: func(it *domainItem, c *domainContext) float64 {
			var b float64
			if slices.Contains(it.Stages, "all") || slices.Contains(it.Stages, orDefault(c.LifeStage, "adult")) {
				b += 0.3
			}
			if orDefault(c.FinancialStress, "medium") == "high" && (it.Category == "budgeting" || it.Category == "debt") {
				b += 0.2
			}
			return b
		},
		reason: func(it *domainItem) string {
			return fmt.Sprintf("%s - %s strategy for %s", it.Name, it.Category, joinGoals(it.Goals))
		},
		action: func(it *domainItem, _ *domainContext) string {
			return fmt.Sprintf("Build financial wellness with %s - reduce money stress", it.Name)
		},
	},
}
