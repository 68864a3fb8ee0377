package coach

import (
	"strings"
	"unicode/utf8"
)

const (
	enDash = "–"

	defaultReasoning     = "Strategic pick"
	strategyFallback     = "Check raw_response for detailed strategy"
	synergiesFallback    = "Check raw_response for team synergies"
	maxAlternativeLength = 30
)

var sentinelRecommendation = HeroRecommendation{
	Name:      "Parsing failed - see raw_response",
	Role:      roleVarious,
	Reasoning: "Check raw_response field for full recommendation",
}

type section int

const (
	sectionNone section = iota
	sectionTeam
	sectionStrategy
	sectionSynergies
	sectionAlternatives
)

// ParseResponse recovers a TeamCompositionResult from free-form completion
// text in a single pass over its lines. It never fails: missing sections
// get fixed fallback values and RawResponse always carries raw unchanged.
func ParseResponse(raw string) TeamCompositionResult {
	res := TeamCompositionResult{
		RecommendedTeam: []HeroRecommendation{},
		Alternatives:    []string{},
		RawResponse:     raw,
	}

	var strategy, synergies strings.Builder
	state := sectionNone
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if next, ok := headerSection(line); ok {
			state = next
			continue
		}

		switch state {
		case sectionTeam:
			if rec, ok := parseTeamLine(line); ok {
				res.RecommendedTeam = append(res.RecommendedTeam, rec)
			}
		case sectionStrategy:
			strategy.WriteString(line)
			strategy.WriteByte(' ')
		case sectionSynergies:
			synergies.WriteString(line)
			synergies.WriteByte(' ')
		case sectionAlternatives:
			if name, ok := parseAlternativeLine(line); ok {
				res.Alternatives = append(res.Alternatives, name)
			}
		}
	}

	res.Strategy = strings.TrimRight(strategy.String(), " ")
	res.Synergies = strings.TrimRight(synergies.String(), " ")

	if len(res.RecommendedTeam) == 0 {
		res.RecommendedTeam = []HeroRecommendation{sentinelRecommendation}
	}
	if res.Strategy == "" {
		res.Strategy = strategyFallback
	}
	if res.Synergies == "" {
		res.Synergies = synergiesFallback
	}
	return res
}

// headerSection reports whether line is a section header. Header lines are
// consumed and never parsed as content.
func headerSection(line string) (section, bool) {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, HeaderRecommendedTeam):
		return sectionTeam, true
	case strings.Contains(upper, HeaderCounterStrategy):
		return sectionStrategy, true
	case strings.Contains(upper, HeaderSynergies), strings.Contains(upper, HeaderKeySynergies):
		return sectionSynergies, true
	case strings.Contains(upper, headerAlternativePrefix):
		return sectionAlternatives, true
	}
	return sectionNone, false
}

// parseTeamLine accepts "<Role>: <Hero> - <reasoning>". The role is the text
// before the first colon; the hero name ends at the first en-dash, or at the
// first hyphen when the rest holds no en-dash.
func parseTeamLine(line string) (HeroRecommendation, bool) {
	if !strings.Contains(line, ":") {
		return HeroRecommendation{}, false
	}
	if !strings.Contains(line, "-") && !strings.Contains(line, enDash) {
		return HeroRecommendation{}, false
	}

	roleToken, rest, _ := strings.Cut(line, ":")
	role, ok := ParseRole(strings.ToLower(strings.TrimSpace(roleToken)))
	if !ok {
		return HeroRecommendation{}, false
	}

	sep := "-"
	if strings.Contains(rest, enDash) {
		sep = enDash
	} else if !strings.Contains(rest, "-") {
		return HeroRecommendation{}, false
	}

	name, reasoning, found := strings.Cut(rest, sep)
	rec := HeroRecommendation{
		Name:      strings.TrimSpace(name),
		Role:      role,
		Reasoning: defaultReasoning,
	}
	if found {
		rec.Reasoning = strings.TrimSpace(reasoning)
	}
	return rec, true
}

// parseAlternativeLine accepts "- <Hero> (<Role>): ..." or
// "- <label>: <Hero> - ...". Names of 30 characters or more are rejected as
// prose.
func parseAlternativeLine(line string) (string, bool) {
	if !strings.HasPrefix(line, "-") {
		return "", false
	}

	var name string
	switch {
	case strings.Contains(line, "(") && strings.Contains(line, ")"):
		heroWithRole, _, _ := strings.Cut(line, ":")
		beforeParen, _, _ := strings.Cut(heroWithRole, "(")
		name = strings.TrimSpace(strings.TrimLeft(beforeParen, "- \t"))
	case strings.Contains(line, ":"):
		_, after, _ := strings.Cut(line, ":")
		after = strings.TrimSpace(after)
		switch {
		case strings.Contains(after, enDash):
			after, _, _ = strings.Cut(after, enDash)
		case strings.Contains(after, "-"):
			after, _, _ = strings.Cut(after, "-")
		}
		name = strings.TrimSpace(after)
	default:
		return "", false
	}

	if name == "" || utf8.RuneCountInString(name) >= maxAlternativeLength {
		return "", false
	}
	return name, true
}
