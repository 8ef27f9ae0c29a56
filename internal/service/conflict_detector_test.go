package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyforge/collab-api/internal/models"
)

func TestDetectEmptyTranscript(t *testing.T) {
	detector := NewConflictDetector()
	conflicts := detector.Detect(nil, models.Segment{Text: "Mira opened the gate."})
	assert.Empty(t, conflicts)
}

func TestDetectCharacterCollision(t *testing.T) {
	detector := NewConflictDetector()
	transcript := []models.Segment{
		{Text: "Mira walked through the forest with her lantern."},
	}
	conflicts := detector.Detect(transcript, models.Segment{Text: "Suddenly Mira appeared on the far shore."})
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictCharacter, conflicts[0].Type)
	assert.Equal(t, models.SeverityMedium, conflicts[0].Severity)
	assert.Contains(t, conflicts[0].Description, "Mira")
}

func TestDetectIgnoresStopwords(t *testing.T) {
	detector := NewConflictDetector()
	transcript := []models.Segment{
		{Text: "The storm rolled in. Suddenly everything went dark."},
	}
	conflicts := detector.Detect(transcript, models.Segment{Text: "The rain kept falling. Suddenly a light appeared."})
	assert.Empty(t, conflicts)
}

func TestDetectDeduplicatesNames(t *testing.T) {
	detector := NewConflictDetector()
	transcript := []models.Segment{
		{Text: "Jonas found the map."},
	}
	conflicts := detector.Detect(transcript, models.Segment{Text: "Jonas ran. Jonas shouted. Jonas hid."})
	assert.Len(t, conflicts, 1)
}

func TestDetectNoOverlap(t *testing.T) {
	detector := NewConflictDetector()
	transcript := []models.Segment{
		{Text: "Mira walked north."},
	}
	conflicts := detector.Detect(transcript, models.Segment{Text: "Jonas walked south."})
	assert.Empty(t, conflicts)
}
