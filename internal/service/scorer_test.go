package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreQualityBounds(t *testing.T) {
	scorer := NewHeuristicScorer()

	assert.Zero(t, scorer.ScoreQuality("", nil))
	assert.Zero(t, scorer.ScoreQuality("   ", nil))

	long := strings.Repeat("different unique varied words everywhere tonight maybe someday ", 20)
	score := scorer.ScoreQuality(long, nil)
	assert.LessOrEqual(t, score, 100.0)
	assert.Greater(t, score, 50.0)
}

func TestScoreQualityRewardsStructure(t *testing.T) {
	scorer := NewHeuristicScorer()

	runOn := "the cat sat on the mat and then the cat sat again on the mat"
	structured := "The cat sat on the mat. Then it stretched. Finally it slept."
	assert.Greater(t, scorer.ScoreQuality(structured, nil), scorer.ScoreQuality(runOn, nil))
}

func TestScoreObjectives(t *testing.T) {
	scorer := NewHeuristicScorer()

	assert.Zero(t, scorer.ScoreObjectives(nil, nil))

	few := scorer.ScoreObjectives([]string{"One short text."}, []string{"obj-1"})
	many := scorer.ScoreObjectives([]string{
		strings.Repeat("word ", 60),
		strings.Repeat("more ", 60),
		"third text",
	}, []string{"obj-1"})
	assert.Greater(t, many, few)
	assert.LessOrEqual(t, many, 100.0)
}

func TestClampScore(t *testing.T) {
	assert.Zero(t, clampScore(-5))
	assert.Equal(t, 100.0, clampScore(250))
	assert.Equal(t, 42.5, clampScore(42.5))
}
