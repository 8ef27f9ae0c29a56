package models

// RoleName identifies a story role template from the catalog.
type RoleName string

// Catalog role names in canonical order.
const (
	RoleStoryArchitect     RoleName = "story-architect"
	RoleCharacterDeveloper RoleName = "character-developer"
	RoleWorldBuilder       RoleName = "world-builder"
	RoleEditor             RoleName = "editor"
	RoleIllustrator        RoleName = "illustrator"
	RoleMediator           RoleName = "mediator"
)

// Permission describes an allowed action within a scope.
type Permission struct {
	Action string `json:"action"`
	Scope  string `json:"scope"`
}

// StoryRole is a named bundle of responsibilities and permissions held by at
// most one participant per session. Immutable once assigned.
type StoryRole struct {
	ID               string       `json:"id"`
	Name             RoleName     `json:"name"`
	Responsibilities []string     `json:"responsibilities"`
	Permissions      []Permission `json:"permissions"`
}

// RoleCatalog returns the fixed role templates in catalog order.
func RoleCatalog() []StoryRole {
	return []StoryRole{
		{
			ID:   "role-story-architect",
			Name: RoleStoryArchitect,
			Responsibilities: []string{
				"Shape the overall plot arc",
				"Open and close major story threads",
			},
			Permissions: []Permission{
				{Action: "contribute", Scope: "plot"},
				{Action: "propose", Scope: "structure"},
			},
		},
		{
			ID:   "role-character-developer",
			Name: RoleCharacterDeveloper,
			Responsibilities: []string{
				"Introduce and deepen characters",
				"Keep character voices consistent",
			},
			Permissions: []Permission{
				{Action: "contribute", Scope: "characters"},
				{Action: "review", Scope: "dialogue"},
			},
		},
		{
			ID:   "role-world-builder",
			Name: RoleWorldBuilder,
			Responsibilities: []string{
				"Describe settings and atmosphere",
				"Maintain internal consistency of the story world",
			},
			Permissions: []Permission{
				{Action: "contribute", Scope: "setting"},
				{Action: "review", Scope: "continuity"},
			},
		},
		{
			ID:   "role-editor",
			Name: RoleEditor,
			Responsibilities: []string{
				"Polish grammar and flow",
				"Flag passages that need revision",
			},
			Permissions: []Permission{
				{Action: "review", Scope: "all"},
				{Action: "suggest", Scope: "revisions"},
			},
		},
		{
			ID:   "role-illustrator",
			Name: RoleIllustrator,
			Responsibilities: []string{
				"Propose visual moments for key scenes",
				"Annotate segments with imagery notes",
			},
			Permissions: []Permission{
				{Action: "annotate", Scope: "scenes"},
				{Action: "contribute", Scope: "descriptions"},
			},
		},
		{
			ID:   "role-mediator",
			Name: RoleMediator,
			Responsibilities: []string{
				"Facilitate discussion when contributions clash",
				"Propose compromises between competing ideas",
			},
			Permissions: []Permission{
				{Action: "moderate", Scope: "conflicts"},
				{Action: "propose", Scope: "resolutions"},
			},
		},
	}
}

// GuidedRoleNames lists the roles every guided session receives, regardless of
// the requested participant cap.
func GuidedRoleNames() []RoleName {
	return []RoleName{RoleStoryArchitect, RoleCharacterDeveloper, RoleWorldBuilder, RoleEditor}
}
