package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeshare/internal/core/recipe"
)

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestConfidenceScoreEmpty(t *testing.T) {
	assert.Equal(t, 0, ConfidenceScore(nil))
	assert.Equal(t, 0, ConfidenceScore([]recipe.Review{}))
}

func TestConfidenceScorePerfectReview(t *testing.T) {
	reviews := []recipe.Review{
		{
			Rating:           5,
			FollowedExact:    boolPtr(true),
			PhotoURL:         strPtr("https://example.com/x.jpg"),
			QuantityAccuracy: intPtr(5),
		},
	}
	// All four ratios are 1: round(40+20+30+10) = 100.
	assert.Equal(t, 100, ConfidenceScore(reviews))
}

func TestConfidenceScoreBareReview(t *testing.T) {
	reviews := []recipe.Review{{Rating: 3}}
	// No followed_exact, no photo, taste falls back to rating (3/5 = 0.6),
	// quantity accuracy defaults to 3 which misses the >=4 bar:
	// round(0 + 0 + 18 + 0) = 18.
	assert.Equal(t, 18, ConfidenceScore(reviews))
}

func TestConfidenceScoreTasteFallback(t *testing.T) {
	withTaste := []recipe.Review{{Rating: 1, TasteRating: intPtr(5)}}
	withoutTaste := []recipe.Review{{Rating: 1}}

	// taste_rating overrides the overall rating when present.
	assert.Equal(t, 30, ConfidenceScore(withTaste))
	assert.Equal(t, 6, ConfidenceScore(withoutTaste))
}

func TestConfidenceScoreRoundsHalfAwayFromZero(t *testing.T) {
	// Four reviews averaging a taste of 3.75: 3.75/5*30 = 22.5, all other
	// components 0. The fixed rounding rule takes .5 up, so 23.
	reviews := []recipe.Review{
		{Rating: 4},
		{Rating: 4},
		{Rating: 4},
		{Rating: 3},
	}
	assert.Equal(t, 23, ConfidenceScore(reviews))
}

func TestConfidenceScoreMixedReviews(t *testing.T) {
	reviews := []recipe.Review{
		{Rating: 5, FollowedExact: boolPtr(true), PhotoURL: strPtr("a.jpg"), QuantityAccuracy: intPtr(5)},
		{Rating: 3},
	}
	// followed 1/2*40=20, photo 1/2*20=10, taste (5+3)/2/5*30=24,
	// accuracy 1/2*10=5: round(59) = 59.
	assert.Equal(t, 59, ConfidenceScore(reviews))
}

func TestConfidenceScoreBounds(t *testing.T) {
	cases := [][]recipe.Review{
		{{Rating: 1}},
		{{Rating: 5}, {Rating: 5}, {Rating: 5}},
		{{Rating: 2, QuantityAccuracy: intPtr(4)}, {Rating: 4, FollowedExact: boolPtr(false)}},
		{{Rating: 5, FollowedExact: boolPtr(true), PhotoURL: strPtr("p"), TasteRating: intPtr(5), QuantityAccuracy: intPtr(5)}},
	}
	for _, reviews := range cases {
		score := ConfidenceScore(reviews)
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, 100)
	}
}

func TestConfidenceScoreEmptyPhotoURLDoesNotCount(t *testing.T) {
	reviews := []recipe.Review{{Rating: 3, PhotoURL: strPtr("")}}
	assert.Equal(t, 18, ConfidenceScore(reviews))
}

func TestApplyVote(t *testing.T) {
	rate, votes := ApplyVote(50, 1, true)
	assert.Equal(t, 75.0, rate)
	assert.Equal(t, 2, votes)

	rate, votes = ApplyVote(50, 1, false)
	assert.Equal(t, 25.0, rate)
	assert.Equal(t, 2, votes)
}

func TestApplyVoteFirstVote(t *testing.T) {
	rate, votes := ApplyVote(0, 0, true)
	assert.Equal(t, 100.0, rate)
	assert.Equal(t, 1, votes)

	rate, votes = ApplyVote(0, 0, false)
	assert.Equal(t, 0.0, rate)
	assert.Equal(t, 1, votes)
}

func TestApplyVoteEqualsRunningAverage(t *testing.T) {
	// Folding votes one at a time must match 100*successful/total.
	outcomes := []bool{true, false, true, true, false, true, false, false, true, true}

	var rate float64
	var votes, successful int
	for _, ok := range outcomes {
		rate, votes = ApplyVote(rate, votes, ok)
		if ok {
			successful++
		}
		assert.InDelta(t, 100*float64(successful)/float64(votes), rate, 1e-9)
	}
	assert.Equal(t, len(outcomes), votes)
}
