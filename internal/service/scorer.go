package service

import "strings"

// QualityScorer rates contribution text from 0 to 100. Scoring is a black
// box to the pipeline; implementations are swappable.
type QualityScorer interface {
	ScoreQuality(text string, objectiveIDs []string) float64
}

// ObjectiveScorer estimates how well a participant's writing served the
// session learning objectives, 0 to 100.
type ObjectiveScorer interface {
	ScoreObjectives(texts []string, objectiveIDs []string) float64
}

// HeuristicScorer is the reference scorer. It rewards length up to a point,
// vocabulary variety and sentence structure. It makes no claim to semantic
// accuracy.
type HeuristicScorer struct{}

// NewHeuristicScorer constructs the reference scorer.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// ScoreQuality implements QualityScorer.
func (s *HeuristicScorer) ScoreQuality(text string, objectiveIDs []string) float64 {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 {
		return 0
	}

	score := 40.0

	// Length: full credit at 50 words, no extra credit past that.
	lengthCredit := float64(len(words))
	if lengthCredit > 50 {
		lengthCredit = 50
	}
	score += lengthCredit * 0.6

	// Vocabulary variety.
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(strings.Trim(w, ".,!?;:\"'"))] = struct{}{}
	}
	variety := float64(len(unique)) / float64(len(words))
	score += variety * 20

	// Sentence structure: multiple sentences read better than one run-on.
	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences > 1 {
		score += 5
	}

	return clampScore(score)
}

// ScoreObjectives implements ObjectiveScorer. With no objectives configured
// it returns a neutral baseline.
func (s *HeuristicScorer) ScoreObjectives(texts []string, objectiveIDs []string) float64 {
	if len(texts) == 0 {
		return 0
	}
	score := 70.0
	totalWords := 0
	for _, t := range texts {
		totalWords += len(strings.Fields(strings.TrimSpace(t)))
	}
	// Sustained participation moves the needle.
	if totalWords > 100 {
		score += 10
	}
	if len(texts) > 2 {
		score += 10
	}
	if len(objectiveIDs) == 0 {
		score -= 5
	}
	return clampScore(score)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
