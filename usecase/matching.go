package usecase

import (
	"context"
	"math"
	"sort"

	"ecobarter-backend/model"
)

const (
	baseCompatibility = 70
	maxValueBonus     = 30
	excellentBonus    = 5
	compatibilityCeil = 98
)

// CandidateSource provides the items a reference item can be matched against.
type CandidateSource interface {
	ListCandidates(ctx context.Context, excludeUserID, excludeItemID string) ([]model.Item, error)
}

// Score ranks candidates against userItem, best match first. Ties keep the
// input order.
func Score(userItem model.Item, candidates []model.Item) []model.CompatibilityResult {
	results := make([]model.CompatibilityResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, model.CompatibilityResult{
			Item:          c,
			Compatibility: compatibility(userItem, c),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Compatibility > results[j].Compatibility
	})
	return results
}

func compatibility(userItem, candidate model.Item) int {
	score := float64(baseCompatibility)
	score += valueBonus(userItem.Value, candidate.Value)
	score += categoryAffinityBonus(userItem.Category, candidate.Category)
	if candidate.Condition == model.ConditionExcellent {
		score += excellentBonus
	}
	return int(math.Min(compatibilityCeil, math.Round(score)))
}

// valueBonus scales the relative value gap onto 0..30. A reference value of
// zero gives no bonus.
func valueBonus(reference, candidate float64) float64 {
	reference = model.NonNegative(reference)
	candidate = model.NonNegative(candidate)
	if reference == 0 {
		return 0
	}
	diff := math.Abs(candidate - reference)
	return math.Max(0, maxValueBonus-(diff/reference)*maxValueBonus)
}

// FindMatches scores every candidate src offers for userItem.
func FindMatches(ctx context.Context, src CandidateSource, userItem model.Item) ([]model.CompatibilityResult, error) {
	candidates, err := src.ListCandidates(ctx, userItem.UserID, userItem.ID)
	if err != nil {
		return nil, err
	}
	return Score(userItem, candidates), nil
}
