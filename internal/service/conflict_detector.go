package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/storyforge/collab-api/internal/models"
)

var properNounPattern = regexp.MustCompile(`^[A-Z][a-z]+$`)

// Common sentence-leading words that look like proper nouns but are not
// character names.
var properNounStopwords = map[string]struct{}{
	"The": {}, "A": {}, "An": {}, "It": {}, "He": {}, "She": {}, "They": {},
	"We": {}, "You": {}, "But": {}, "And": {}, "Then": {}, "When": {},
	"After": {}, "Before": {}, "Suddenly": {}, "Meanwhile": {}, "This": {},
	"That": {}, "There": {}, "Once": {},
}

// ConflictDetector inspects a new segment against the approved transcript.
// It is a pure function of both texts; detected conflicts never block
// submission, they only force approval.
type ConflictDetector struct{}

// NewConflictDetector constructs the detector.
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// Detect returns conflicts between the new segment and the transcript so far.
func (d *ConflictDetector) Detect(transcript []models.Segment, segment models.Segment) []models.Conflict {
	var conflicts []models.Conflict
	conflicts = append(conflicts, d.detectCharacterCollisions(transcript, segment)...)
	conflicts = append(conflicts, d.detectPlotInconsistencies(transcript, segment)...)
	return conflicts
}

// detectCharacterCollisions flags proper nouns that appear both in the new
// segment and in the prior transcript: the same name used by two authors is
// the most common source of contradictory character writing.
func (d *ConflictDetector) detectCharacterCollisions(transcript []models.Segment, segment models.Segment) []models.Conflict {
	if len(transcript) == 0 {
		return nil
	}
	existing := make(map[string]struct{})
	for i := range transcript {
		for name := range properNouns(transcript[i].Text) {
			existing[name] = struct{}{}
		}
	}

	var conflicts []models.Conflict
	seen := make(map[string]struct{})
	for name := range properNouns(segment.Text) {
		if _, ok := existing[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		conflicts = append(conflicts, models.Conflict{
			Type:                models.ConflictCharacter,
			Severity:            models.SeverityMedium,
			Description:         fmt.Sprintf("Character %q already appears earlier in the story", name),
			SuggestedResolution: fmt.Sprintf("Review earlier segments mentioning %q and align this contribution with them", name),
		})
	}
	return conflicts
}

// detectPlotInconsistencies is a declared hook for timeline and causality
// checks. TODO: wire a real plot model once segments carry structured scene
// references; until then no plot conflicts are reported.
func (d *ConflictDetector) detectPlotInconsistencies(transcript []models.Segment, segment models.Segment) []models.Conflict {
	return nil
}

func properNouns(text string) map[string]struct{} {
	nouns := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		word := strings.Trim(token, ".,!?;:\"'()")
		if !properNounPattern.MatchString(word) {
			continue
		}
		if _, stop := properNounStopwords[word]; stop {
			continue
		}
		nouns[word] = struct{}{}
	}
	return nouns
}
