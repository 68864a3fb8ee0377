package coach

// Role is a hero role.
type Role string

const (
	RoleTank    Role = "tank"
	RoleDamage  Role = "damage"
	RoleSupport Role = "support"

	// roleVarious only appears on the fallback recommendation.
	roleVarious Role = "various"
)

// ParseRole maps an already lower-cased, trimmed token to a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleTank, RoleDamage, RoleSupport:
		return Role(s), true
	}
	return "", false
}

// HeroRecommendation is one recommended pick.
type HeroRecommendation struct {
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Reasoning string `json:"reasoning"`
}

// IsSentinel reports whether h is the placeholder emitted when no
// recommendation could be parsed.
func (h HeroRecommendation) IsSentinel() bool {
	return h == sentinelRecommendation
}

// RetrievalContext is the knowledge text retrieved for one request.
type RetrievalContext struct {
	HeroesText string
	MapsText   string
}

// CompositionRequest asks for a team composition.
type CompositionRequest struct {
	MapName      string   `json:"map_name"`
	EnemyTeam    []string `json:"enemy_team"`
	CurrentTeam  []string `json:"current_team"`
	Difficulties string   `json:"difficulties"`
}

// TeamCompositionResult is the structured recommendation. RawResponse is
// always the completion text exactly as returned by the model.
type TeamCompositionResult struct {
	RecommendedTeam []HeroRecommendation `json:"recommended_team"`
	Strategy        string               `json:"strategy"`
	Synergies       string               `json:"synergies"`
	Alternatives    []string             `json:"alternatives"`
	RawResponse     string               `json:"raw_response"`
}

// HeroCounterRequest asks which heroes counter HeroName.
type HeroCounterRequest struct {
	HeroName string `json:"hero_name"`
}

// HeroCounterResult carries the model's counter advice verbatim.
type HeroCounterResult struct {
	Hero     string `json:"hero"`
	Counters string `json:"counters"`
}
