// Package catalog serves the static unit, template and suggestion tables the
// goal wizard draws from.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/arnold/goalplan-api/internal/goals"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// MaxSuggestions is how many habit or task suggestions are offered per goal type.
const MaxSuggestions = 3

type Unit struct {
	ID          string             `yaml:"id" json:"id"`
	Label       string             `yaml:"label" json:"label"`
	Icon        string             `yaml:"icon" json:"icon"`
	Category    string             `yaml:"category" json:"category"`
	MetricTypes []goals.MetricType `yaml:"metricTypes" json:"metricTypes"`
	GoalTypes   []goals.GoalType   `yaml:"goalTypes,omitempty" json:"goalTypes,omitempty"`
}

// Eligible reports whether the unit can be offered for metric and goalType.
func (u Unit) Eligible(metric goals.MetricType, goalType goals.GoalType) bool {
	if !containsMetric(u.MetricTypes, metric) {
		return false
	}
	if len(u.GoalTypes) == 0 {
		return true
	}
	for _, t := range u.GoalTypes {
		if t == goalType {
			return true
		}
	}
	return false
}

type UnitGroup struct {
	Category string `json:"category"`
	Units    []Unit `json:"units"`
}

type Template struct {
	ID                  string            `yaml:"id" json:"id"`
	Title               string            `yaml:"title" json:"title"`
	Description         string            `yaml:"description,omitempty" json:"description,omitempty"`
	GoalType            goals.GoalType    `yaml:"goalType" json:"goalType"`
	MetricKind          goals.MetricType  `yaml:"metricKind" json:"metricKind"`
	FinanceMode         goals.FinanceMode `yaml:"financeMode,omitempty" json:"financeMode,omitempty"`
	DefaultUnit         string            `yaml:"defaultUnit,omitempty" json:"defaultUnit,omitempty"`
	TargetValue         *float64          `yaml:"targetValue,omitempty" json:"targetValue,omitempty"`
	RecommendedPercents []int             `yaml:"recommendedPercents,omitempty" json:"recommendedPercents,omitempty"`
}

type HabitSuggestion struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Frequency   string `yaml:"frequency" json:"frequency"`
}

type TaskSuggestion struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Priority    string `yaml:"priority" json:"priority"`
}

// Catalog is immutable once loaded.
type Catalog struct {
	units     []Unit
	unitIndex map[string]int
	templates []Template
	tmplIndex map[string]int
	habits    map[goals.GoalType][]HabitSuggestion
	tasks     map[goals.GoalType][]TaskSuggestion
}

type document struct {
	Units     []Unit                                `yaml:"units"`
	Templates []Template                            `yaml:"templates"`
	Habits    map[goals.GoalType][]HabitSuggestion `yaml:"habits"`
	Tasks     map[goals.GoalType][]TaskSuggestion  `yaml:"tasks"`
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// MustDefault is Default for program start-up and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file, falling back to the embedded data when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		units:     doc.Units,
		unitIndex: make(map[string]int, len(doc.Units)),
		templates: doc.Templates,
		tmplIndex: make(map[string]int, len(doc.Templates)),
		habits:    doc.Habits,
		tasks:     doc.Tasks,
	}
	for i, u := range doc.Units {
		if u.ID == "" {
			return nil, fmt.Errorf("catalog: unit %d has no id", i)
		}
		if _, dup := c.unitIndex[u.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate unit %q", u.ID)
		}
		c.unitIndex[u.ID] = i
	}
	for i, t := range doc.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: template %d has no id", i)
		}
		if !t.GoalType.Valid() {
			return nil, fmt.Errorf("catalog: template %q has unknown goal type %q", t.ID, t.GoalType)
		}
		if !t.MetricKind.Selectable() {
			return nil, fmt.Errorf("catalog: template %q has unknown metric %q", t.ID, t.MetricKind)
		}
		if _, dup := c.tmplIndex[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate template %q", t.ID)
		}
		c.tmplIndex[t.ID] = i
	}
	for _, s := range goals.Scenarios {
		if id, ok := s.TemplateID(); ok {
			if _, found := c.tmplIndex[id]; !found {
				return nil, fmt.Errorf("catalog: scenario %s needs template %q", s, id)
			}
		}
	}
	return c, nil
}

// Units returns every unit in catalog order.
func (c *Catalog) Units() []Unit {
	return append([]Unit(nil), c.units...)
}

func (c *Catalog) Unit(id string) (Unit, bool) {
	i, ok := c.unitIndex[id]
	if !ok {
		return Unit{}, false
	}
	return c.units[i], true
}

func (c *Catalog) IsCatalogUnit(id string) bool {
	_, ok := c.unitIndex[id]
	return ok
}

// AvailableUnits lists the units eligible for metric and goalType in catalog order.
func (c *Catalog) AvailableUnits(metric goals.MetricType, goalType goals.GoalType) []Unit {
	var out []Unit
	for _, u := range c.units {
		if u.Eligible(metric, goalType) {
			out = append(out, u)
		}
	}
	return out
}

// UnitsByCategory groups units keeping the order in which categories first appear.
func UnitsByCategory(units []Unit) []UnitGroup {
	var groups []UnitGroup
	index := make(map[string]int)
	for _, u := range units {
		i, ok := index[u.Category]
		if !ok {
			i = len(groups)
			index[u.Category] = i
			groups = append(groups, UnitGroup{Category: u.Category})
		}
		groups[i].Units = append(groups[i].Units, u)
	}
	return groups
}

// SmartDefaultUnit picks the unit a fresh draft starts with.
func SmartDefaultUnit(metric goals.MetricType, goalType goals.GoalType) string {
	switch metric {
	case goals.MetricDuration:
		return "hours"
	case goals.MetricAmount:
		return ""
	case goals.MetricCount:
		switch goalType {
		case goals.GoalTypeHealth:
			return "workouts"
		case goals.GoalTypeEducation:
			return "books"
		case goals.GoalTypeProductivity:
			return "tasks"
		}
		return "times"
	default:
		return "times"
	}
}

func (c *Catalog) Templates() []Template {
	return append([]Template(nil), c.templates...)
}

func (c *Catalog) Template(id string) (Template, bool) {
	i, ok := c.tmplIndex[id]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// TemplateForScenario returns the template mapped to s, if any.
func (c *Catalog) TemplateForScenario(s goals.Scenario) (Template, bool) {
	id, ok := s.TemplateID()
	if !ok {
		return Template{}, false
	}
	return c.Template(id)
}

// HabitSuggestions returns up to MaxSuggestions habits for goalType.
func (c *Catalog) HabitSuggestions(goalType goals.GoalType) []HabitSuggestion {
	list := c.habits[goalType]
	if len(list) > MaxSuggestions {
		list = list[:MaxSuggestions]
	}
	return append([]HabitSuggestion(nil), list...)
}

// TaskSuggestions returns up to MaxSuggestions tasks for goalType.
func (c *Catalog) TaskSuggestions(goalType goals.GoalType) []TaskSuggestion {
	list := c.tasks[goalType]
	if len(list) > MaxSuggestions {
		list = list[:MaxSuggestions]
	}
	return append([]TaskSuggestion(nil), list...)
}

func containsMetric(list []goals.MetricType, m goals.MetricType) bool {
	for _, v := range list {
		if v == m {
			return true
		}
	}
	return false
}
