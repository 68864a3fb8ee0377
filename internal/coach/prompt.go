package coach

import (
	"strings"
	"text/template"
)

// Section headers the prompt asks for and the parser looks for. The parser
// matches them as substrings of the upper-cased line.
const (
	HeaderRecommendedTeam = "RECOMMENDED TEAM"
	HeaderCounterStrategy = "COUNTER STRATEGY"
	HeaderKeySynergies    = "KEY SYNERGIES"
	HeaderSynergies       = "SYNERGIES"
	HeaderAlternatives    = "ALTERNATIVES"

	headerAlternativePrefix = "ALTERNATIVE"
)

// Placeholders for empty request fields.
const (
	unknownEnemyTeam  = "Unknown"
	emptyCurrentTeam  = "Empty - need full team"
	noDifficulties    = "None specified"
	heroListSeparator = ", "
)

const compositionPrompt = `You are an expert Overwatch coach. Suggest an optimal 5-hero team composition.

**CONTEXT:**
Map: {{.MapName}}
Enemy Team: {{.EnemyTeam}}
Current Team: {{.CurrentTeam}}
Difficulties: {{.Difficulties}}

**KNOWLEDGE:**
{{.HeroesContext}}

Map Info: {{.MapsContext}}

**YOUR RESPONSE MUST BE STRUCTURED AS:**

1. {{.Headers.Team}} (exactly 5 heroes):
Tank: [Hero Name] - [One sentence why]
Damage: [Hero Name] - [One sentence why]
Damage: [Hero Name] - [One sentence why]
Support: [Hero Name] - [One sentence why]
Support: [Hero Name] - [One sentence why]

2. {{.Headers.Strategy}}:
[2-3 sentences explaining how this team counters the enemy]

3. {{.Headers.Synergies}}:
[2-3 sentences about ability combos and team playstyle]

4. {{.Headers.Alternatives}}:
[List 2-3 substitute heroes with brief reasons]

Keep responses concise and actionable. Focus on current Overwatch meta.
`

const counterPrompt = `Based on the Overwatch heroes database below, identify effective counters to {{.HeroName}}.

**KNOWLEDGE:**
{{.HeroesContext}}

**QUESTION:**
{{.Question}}

Provide:
1. **Hard Counters** (3 heroes): Heroes with strong advantages and why
2. **Soft Counters** (2 heroes): Heroes with moderate advantages
3. **Key Strategies**: Specific tactics to counter this hero

Be concise and focus on practical in-game advice.
`

var (
	compositionTmpl = template.Must(template.New("composition").Parse(compositionPrompt))
	counterTmpl     = template.Must(template.New("counter").Parse(counterPrompt))
)

type promptHeaders struct {
	Team, Strategy, Synergies, Alternatives string
}

var sectionHeaders = promptHeaders{
	Team:         HeaderRecommendedTeam,
	Strategy:     HeaderCounterStrategy,
	Synergies:    HeaderKeySynergies,
	Alternatives: HeaderAlternatives,
}

type compositionData struct {
	MapName       string
	EnemyTeam     string
	CurrentTeam   string
	Difficulties  string
	HeroesContext string
	MapsContext   string
	Headers       promptHeaders
}

type counterData struct {
	HeroName      string
	HeroesContext string
	Question      string
}

// AssemblePrompt renders the composition prompt for req with the retrieved
// knowledge. Empty request fields render as fixed placeholders.
func AssemblePrompt(req CompositionRequest, rc RetrievalContext) string {
	data := compositionData{
		MapName:       req.MapName,
		EnemyTeam:     joinOr(req.EnemyTeam, unknownEnemyTeam),
		CurrentTeam:   joinOr(req.CurrentTeam, emptyCurrentTeam),
		Difficulties:  req.Difficulties,
		HeroesContext: rc.HeroesText,
		MapsContext:   rc.MapsText,
		Headers:       sectionHeaders,
	}
	if data.Difficulties == "" {
		data.Difficulties = noDifficulties
	}
	return render(compositionTmpl, data)
}

// AssembleCounterPrompt renders the hero-counter prompt around CounterQuery.
func AssembleCounterPrompt(heroName, heroesContext string) string {
	return render(counterTmpl, counterData{
		HeroName:      heroName,
		HeroesContext: heroesContext,
		Question:      CounterQuery(heroName),
	})
}

func render(t *template.Template, data any) string {
	var b strings.Builder
	// Both templates reference plain string fields only.
	if err := t.Execute(&b, data); err != nil {
		panic("coach: render " + t.Name() + ": " + err.Error())
	}
	return b.String()
}

func joinOr(items []string, placeholder string) string {
	if len(items) == 0 {
		return placeholder
	}
	return strings.Join(items, heroListSeparator)
}
