package goals

type Scenario string

const (
	ScenarioFinancialSave  Scenario = "financialSave"
	ScenarioFinancialSpend Scenario = "financialSpend"
	ScenarioHabitSupport   Scenario = "habitSupport"
	ScenarioSkillGrowth    Scenario = "skillGrowth"
	ScenarioCustom         Scenario = "custom"
)

// Scenarios lists every onboarding scenario in display order.
var Scenarios = []Scenario{
	ScenarioFinancialSave,
	ScenarioFinancialSpend,
	ScenarioHabitSupport,
	ScenarioSkillGrowth,
	ScenarioCustom,
}

func (s Scenario) Valid() bool {
	for _, v := range Scenarios {
		if v == s {
			return true
		}
	}
	return false
}

// scenarioTemplates links scenarios to template ids. custom has no template.
var scenarioTemplates = map[Scenario]string{
	ScenarioFinancialSave:  "emergency-fund",
	ScenarioFinancialSpend: "travel-budget",
	ScenarioHabitSupport:   "workout-routine",
	ScenarioSkillGrowth:    "learn-language",
}

// TemplateID returns the template id mapped to s.
func (s Scenario) TemplateID() (string, bool) {
	id, ok := scenarioTemplates[s]
	return id, ok
}

// ScenarioForTemplate is the reverse of Scenario.TemplateID.
func ScenarioForTemplate(templateID string) (Scenario, bool) {
	for _, s := range Scenarios {
		if id, ok := scenarioTemplates[s]; ok && id == templateID {
			return s, true
		}
	}
	return "", false
}

type scenarioCandidate struct {
	scenario    Scenario
	goalType    GoalType
	metric      MetricType
	financeMode FinanceMode // empty matches any mode
}

var scenarioCandidates = []scenarioCandidate{
	{ScenarioFinancialSave, GoalTypeFinancial, MetricAmount, FinanceSave},
	{ScenarioFinancialSpend, GoalTypeFinancial, MetricAmount, FinanceSpend},
	{ScenarioHabitSupport, GoalTypeHealth, MetricCount, ""},
	{ScenarioSkillGrowth, GoalTypeEducation, MetricDuration, ""},
	{ScenarioCustom, GoalTypePersonal, MetricCustom, ""},
}

// ScenarioFor resolves the onboarding scenario matching a goal's attributes.
// The first candidate whose goal type and metric match exactly, and whose
// finance mode is a wildcard or equal, wins. Unmatched goals are custom.
func ScenarioFor(goalType GoalType, metric MetricType, mode FinanceMode) Scenario {
	for _, c := range scenarioCandidates {
		if c.goalType != goalType || c.metric != metric {
			continue
		}
		if c.financeMode == "" || c.financeMode == mode {
			return c.scenario
		}
	}
	return ScenarioCustom
}

// ScenarioForGoal resolves the scenario of a persisted goal.
func ScenarioForGoal(g Goal) Scenario {
	var mode FinanceMode
	if a, ok := g.Payload.Amount(); ok {
		mode = a.FinanceMode
	}
	return ScenarioFor(g.Payload.GoalType, g.Payload.MetricType(), mode)
}
