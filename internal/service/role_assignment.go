package service

import (
	"fmt"
	"math/rand"

	"github.com/storyforge/collab-api/internal/models"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
)

// AssignmentStrategy selects how an unassigned role is picked on admission.
type AssignmentStrategy string

// Assignment strategies.
const (
	StrategyRandom     AssignmentStrategy = "RANDOM"
	StrategySkillBased AssignmentStrategy = "SKILL_BASED"
	StrategyPreference AssignmentStrategy = "PREFERENCE_BASED"
	StrategyManual     AssignmentStrategy = "MANUAL"
)

// RolePicker chooses one role from the unassigned pool.
type RolePicker interface {
	Pick(unassigned []models.StoryRole) (models.StoryRole, error)
}

// randomPicker selects uniformly among unassigned roles.
type randomPicker struct{}

func (randomPicker) Pick(unassigned []models.StoryRole) (models.StoryRole, error) {
	if len(unassigned) == 0 {
		return models.StoryRole{}, appErrors.Clone(appErrors.ErrPreconditionFailed, "Session is full")
	}
	return unassigned[rand.Intn(len(unassigned))], nil
}

// firstUnassignedPicker takes the first role in catalog order. SKILL_BASED,
// PREFERENCE_BASED and MANUAL all degrade to this picker because the skill
// profiles and caller preferences they would need are not modeled here; the
// degradation is deliberate and visible, not an approximation of RANDOM.
type firstUnassignedPicker struct{}

func (firstUnassignedPicker) Pick(unassigned []models.StoryRole) (models.StoryRole, error) {
	if len(unassigned) == 0 {
		return models.StoryRole{}, appErrors.Clone(appErrors.ErrPreconditionFailed, "Session is full")
	}
	return unassigned[0], nil
}

// pickerFor maps a strategy to its picker. The strategy set is closed.
func pickerFor(strategy AssignmentStrategy) (RolePicker, error) {
	switch strategy {
	case StrategyRandom:
		return randomPicker{}, nil
	case StrategySkillBased, StrategyPreference, StrategyManual, "":
		return firstUnassignedPicker{}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unknown assignment strategy: %s", strategy))
	}
}

// DefaultRolesFor builds the role set attached to a new session. Guided
// sessions always get exactly the four guided roles; collaborative and
// turn-based sessions take up to maxParticipants roles in catalog order.
func DefaultRolesFor(sessionType models.SessionType, maxParticipants int) []models.StoryRole {
	catalog := models.RoleCatalog()
	if sessionType == models.SessionGuided {
		wanted := models.GuidedRoleNames()
		roles := make([]models.StoryRole, 0, len(wanted))
		for _, name := range wanted {
			for _, role := range catalog {
				if role.Name == name {
					roles = append(roles, role)
					break
				}
			}
		}
		return roles
	}
	if maxParticipants <= 0 || maxParticipants > len(catalog) {
		maxParticipants = len(catalog)
	}
	return catalog[:maxParticipants]
}

// unassignedRoles returns the session roles no participant currently holds.
func unassignedRoles(session *models.Session) []models.StoryRole {
	assigned := session.AssignedRoleIDs()
	free := make([]models.StoryRole, 0, len(session.Roles))
	for _, role := range session.Roles {
		if _, taken := assigned[role.ID]; !taken {
			free = append(free, role)
		}
	}
	return free
}
