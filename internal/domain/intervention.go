package domain

// InterventionCategory groups catalog entries for display and reporting.
// Categories never affect rule behavior or enumeration order.
type InterventionCategory string

const (
	LIFESTYLE  InterventionCategory = "LIFESTYLE"
	DIET       InterventionCategory = "DIET"
	SUPPLEMENT InterventionCategory = "SUPPLEMENT"
)

// IsValid reports whether the category is one of the defined groups.
func (c InterventionCategory) IsValid() bool {
	switch c {
	case LIFESTYLE, DIET, SUPPLEMENT:
		return true
	default:
		return false
	}
}

// String returns the category identifier.
func (c InterventionCategory) String() string {
	return string(c)
}

// InterventionRule pairs a unique display name with a deterministic
// transformation of a biomarker set. The name doubles as the user-facing
// selector; matching is exact and case-sensitive.
//
// Apply must be pure: it never mutates its input, never touches
// chronological_age, and returns a complete set. Rules are registered once
// at startup and never change afterwards.
type InterventionRule struct {
	Name        string
	Category    InterventionCategory
	Description string
	Targets     []Biomarker
	Apply       func(set BiomarkerSet) BiomarkerSet
}

// InterventionInfo is the serializable description of a catalog entry,
// used by listings and the MCP tool surface.
type InterventionInfo struct {
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Targets     []Biomarker `json:"targets"`
}

// Info returns the serializable description of the rule.
func (r *InterventionRule) Info() InterventionInfo {
	targets := make([]Biomarker, len(r.Targets))
	copy(targets, r.Targets)
	return InterventionInfo{
		Name:        r.Name,
		Category:    r.Category.String(),
		Description: r.Description,
		Targets:     targets,
	}
}
