// Package quality computes the derived recipe metrics: the review-based
// confidence score and the ingredient-swap success rate. Pure arithmetic,
// no I/O.
package quality

import (
	"math"

	"recipeshare/internal/core/recipe"
)

// Confidence score weights. Fixed constants that sum to 100.
const (
	weightFollowedExact = 40
	weightWithPhoto     = 20
	weightTaste         = 30
	weightAccuracy      = 10
)

// Quantity accuracy defaults to neutral when a review leaves it unset, and
// only counts toward the score from 4 up.
const (
	defaultQuantityAccuracy = 3
	accuracyThreshold       = 4
)

// ConfidenceScore derives a 0-100 integer from a recipe's reviews.
//
// Each sub-ratio is bounded in [0,1] before weighting, so the weighted sum
// is bounded in [0,100]. An empty review set scores 0. Rounding is half
// away from zero.
func ConfidenceScore(reviews []recipe.Review) int {
	n := len(reviews)
	if n == 0 {
		return 0
	}

	var followedExact, withPhoto, accurate int
	var tasteSum float64
	for _, r := range reviews {
		if r.FollowedExact != nil && *r.FollowedExact {
			followedExact++
		}
		if r.PhotoURL != nil && *r.PhotoURL != "" {
			withPhoto++
		}
		if r.TasteRating != nil {
			tasteSum += float64(*r.TasteRating)
		} else {
			tasteSum += float64(r.Rating)
		}
		accuracy := defaultQuantityAccuracy
		if r.QuantityAccuracy != nil {
			accuracy = *r.QuantityAccuracy
		}
		if accuracy >= accuracyThreshold {
			accurate++
		}
	}

	count := float64(n)
	avgTaste := tasteSum / count

	score := float64(followedExact)/count*weightFollowedExact +
		float64(withPhoto)/count*weightWithPhoto +
		avgTaste/5*weightTaste +
		float64(accurate)/count*weightAccuracy

	return int(math.Round(score))
}

// ApplyVote folds one vote into a swap's running success rate. A successful
// vote contributes 100, an unsuccessful one 0, so the rate always equals
// 100 * successfulVotes / totalVotes.
func ApplyVote(successRate float64, votesCount int, successful bool) (float64, int) {
	newCount := votesCount + 1
	total := successRate * float64(votesCount)
	if successful {
		total += 100
	}
	return total / float64(newCount), newCount
}
