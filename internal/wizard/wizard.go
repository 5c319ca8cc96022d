// Package wizard implements the goal creation and editing flow: the draft
// state machine, submission and the auto-plan step that follows a new goal.
//
// A Wizard is owned by one user and is not safe for concurrent use; callers
// serialize events per wizard.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/google/uuid"
)

type State string

const (
	StateClosed   State = "closed"
	StateEmpty    State = "empty"
	StateEditing  State = "editing"
	StateAutoPlan State = "autoPlan"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Deps are the collaborators a Wizard talks to. Strings and Now are optional.
type Deps struct {
	Catalog *catalog.Catalog
	Goals   GoalStore
	Habits  HabitStore
	Tasks   TaskStore
	Prefs   FinancePreferences
	Strings Localizer
	Now     func() time.Time
}

type Wizard struct {
	userID       uuid.UUID
	deps         Deps
	state        State
	mode         Mode
	baseCurrency string
	draft        Draft
	plan         *autoPlan
}

func New(userID uuid.UUID, deps Deps) *Wizard {
	if deps.Strings == nil {
		deps.Strings = englishTitles{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Wizard{
		userID: userID,
		deps:   deps,
		state:  StateClosed,
		draft:  newDraft(""),
	}
}

func (w *Wizard) UserID() uuid.UUID { return w.userID }
func (w *Wizard) State() State      { return w.state }
func (w *Wizard) Mode() Mode        { return w.mode }

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft { return w.draft.clone() }

// SetStrings swaps the localizer, e.g. after the user changes language.
func (w *Wizard) SetStrings(l Localizer) {
	if l != nil {
		w.deps.Strings = l
	}
}

// Open starts a create flow, or an edit flow for goalID when mode is ModeEdit.
func (w *Wizard) Open(ctx context.Context, mode Mode, goalID uuid.UUID) error {
	if w.state != StateClosed {
		return fmt.Errorf("%w: already open", ErrInvalidState)
	}
	base, err := w.deps.Prefs.BaseCurrency(ctx, w.userID)
	if err != nil {
		return fmt.Errorf("base currency: %w", err)
	}
	w.baseCurrency = base

	switch mode {
	case ModeCreate:
		w.Reset()
		w.mode = ModeCreate
		w.state = StateEmpty
	case ModeEdit:
		g, err := w.deps.Goals.Goal(ctx, w.userID, goalID)
		if err != nil {
			return fmt.Errorf("load goal %s: %w", goalID, err)
		}
		w.Reset()
		w.draft.hydrate(g, w.deps.Catalog, w.baseCurrency)
		w.mode = ModeEdit
		w.state = StateEditing
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidState, mode)
	}
	return nil
}

// Reset puts every field back to its default. Mode and state are untouched.
func (w *Wizard) Reset() {
	w.draft = newDraft(w.baseCurrency)
	w.plan = nil
}

// Close discards the draft whether or not anything was committed.
func (w *Wizard) Close() {
	w.Reset()
	w.mode = ""
	w.state = StateClosed
}

// Refresh re-hydrates an edit draft when the goal it edits changed in the
// store. It reports whether the draft was replaced.
func (w *Wizard) Refresh(g goals.Goal) bool {
	if w.state != StateEditing || w.mode != ModeEdit {
		return false
	}
	if w.draft.EditingGoalID == nil || *w.draft.EditingGoalID != g.ID {
		return false
	}
	w.draft.hydrate(g, w.deps.Catalog, w.baseCurrency)
	return true
}

// beginEdit guards draft events and moves an empty wizard to editing.
func (w *Wizard) beginEdit() error {
	switch w.state {
	case StateClosed:
		return ErrClosed
	case StateAutoPlan:
		return fmt.Errorf("%w: draft is committed", ErrInvalidState)
	case StateEmpty:
		w.state = StateEditing
	}
	return nil
}

func (w *Wizard) SetTitle(title string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	w.draft.Title = title
	w.draft.ErrorKey = ""
	return nil
}

func (w *Wizard) SetDescription(desc string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	w.draft.Description = desc
	return nil
}

func (w *Wizard) SetTargetValue(text string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	w.draft.TargetValueText = text
	w.draft.ErrorKey = ""
	return nil
}

func (w *Wizard) SetCurrentValue(text string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	w.draft.CurrentValueText = text
	return nil
}

// SetUnit selects a catalog unit, or CustomUnit to switch to free text.
func (w *Wizard) SetUnit(unit string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	if w.draft.MetricType == goals.MetricAmount {
		return ErrUnitWithAmount
	}
	if unit == CustomUnit {
		w.draft.Unit = CustomUnit
		w.draft.ShowCustomUnit = true
		return nil
	}
	if unit != "" {
		u, ok := w.deps.Catalog.Unit(unit)
		if !ok || !u.Eligible(w.draft.MetricType, w.draft.GoalType) {
			return fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
		}
	}
	w.draft.Unit = unit
	w.draft.clearCustomUnit()
	return nil
}

// SetCustomUnit sets free-text unit and switches the draft to custom mode.
func (w *Wizard) SetCustomUnit(text string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	if w.draft.MetricType == goals.MetricAmount {
		return ErrUnitWithAmount
	}
	w.draft.Unit = CustomUnit
	w.draft.ShowCustomUnit = true
	w.draft.CustomUnit = text
	return nil
}

func (w *Wizard) SetFinanceMode(mode goals.FinanceMode) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFinance, mode)
	}
	w.draft.FinanceMode = mode
	return nil
}

func (w *Wizard) SetCurrency(code string) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	normalized, err := NormalizeCurrency(code)
	if err != nil {
		return err
	}
	w.draft.Currency = normalized
	return nil
}

// HandleMetricChange switches the metric and keeps the amount/unit settings
// consistent: leaving amount resets the finance mode and picks a default
// unit, entering amount drops the unit and ensures a currency.
func (w *Wizard) HandleMetricChange(metric goals.MetricType) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	if !metric.Selectable() {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	w.draft.MetricType = metric
	if metric != goals.MetricAmount {
		w.draft.FinanceMode = goals.FinanceSave
		w.draft.Unit = catalog.SmartDefaultUnit(metric, w.draft.GoalType)
		w.draft.clearCustomUnit()
		return nil
	}
	if w.draft.Currency == "" {
		w.draft.Currency = w.baseCurrency
	}
	w.draft.Unit = ""
	w.draft.clearCustomUnit()
	return nil
}

// HandleGoalTypeChange switches the goal type and re-picks the default unit
// for non-amount metrics.
func (w *Wizard) HandleGoalTypeChange(goalType goals.GoalType) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	if !goalType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGoalType, goalType)
	}
	w.draft.GoalType = goalType
	if w.draft.MetricType != goals.MetricAmount {
		w.draft.Unit = catalog.SmartDefaultUnit(w.draft.MetricType, goalType)
		w.draft.clearCustomUnit()
	}
	return nil
}

// ApplyTemplate merges a template into the draft. Fields the template leaves
// unset keep their current values. The scenario is override when given,
// otherwise the scenario mapped to the template, otherwise custom.
func (w *Wizard) ApplyTemplate(t catalog.Template, override *goals.Scenario) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	switch {
	case override != nil:
		w.draft.Scenario = *override
	default:
		if s, ok := goals.ScenarioForTemplate(t.ID); ok {
			w.draft.Scenario = s
		} else {
			w.draft.Scenario = goals.ScenarioCustom
		}
	}

	w.draft.Title = t.Title
	w.draft.Description = t.Description
	w.draft.GoalType = t.GoalType
	w.draft.MetricType = t.MetricKind
	w.draft.ErrorKey = ""
	if t.MetricKind == goals.MetricAmount && w.draft.Currency == "" {
		w.draft.Currency = w.baseCurrency
	}

	if t.FinanceMode != "" {
		w.draft.FinanceMode = t.FinanceMode
	}
	if t.DefaultUnit != "" {
		w.draft.Unit = t.DefaultUnit
		w.draft.clearCustomUnit()
	}
	if t.TargetValue != nil {
		w.draft.TargetValueText = formatNumber(*t.TargetValue)
	}
	if len(t.RecommendedPercents) > 0 {
		ms := make([]MilestoneDraft, 0, len(t.RecommendedPercents))
		for _, p := range t.RecommendedPercents {
			percent := goals.ClampMilestonePercent(float64(p))
			ms = append(ms, MilestoneDraft{
				ID:      uuid.New(),
				Title:   w.deps.Strings.MilestoneTitle(percent),
				Percent: percent,
			})
		}
		w.draft.Milestones = ms
	}
	return nil
}

// ApplyTemplateByID looks the template up in the catalog and applies it.
func (w *Wizard) ApplyTemplateByID(id string) error {
	t, ok := w.deps.Catalog.Template(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return w.ApplyTemplate(t, nil)
}

// HandleScenarioSelect records the scenario and applies its template, if any.
func (w *Wizard) HandleScenarioSelect(s goals.Scenario) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownScenario, s)
	}
	w.draft.Scenario = s
	if t, ok := w.deps.Catalog.TemplateForScenario(s); ok {
		return w.ApplyTemplate(t, &s)
	}
	return nil
}

// AddMilestone appends a milestone 25 points above the last one.
func (w *Wizard) AddMilestone() (MilestoneDraft, error) {
	if err := w.beginEdit(); err != nil {
		return MilestoneDraft{}, err
	}
	last := 0
	if n := len(w.draft.Milestones); n > 0 {
		last = w.draft.Milestones[n-1].Percent
	}
	percent := goals.ClampMilestonePercent(float64(last + 25))
	m := MilestoneDraft{
		ID:      uuid.New(),
		Title:   w.deps.Strings.MilestoneTitle(percent),
		Percent: percent,
	}
	w.draft.Milestones = append(w.draft.Milestones, m)
	return m, nil
}

func (w *Wizard) UpdateMilestone(id uuid.UUID, patch MilestonePatch) (MilestoneDraft, error) {
	if err := w.beginEdit(); err != nil {
		return MilestoneDraft{}, err
	}
	i := w.draft.milestoneIndex(id)
	if i < 0 {
		return MilestoneDraft{}, ErrMilestoneNotFound
	}
	m := &w.draft.Milestones[i]
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Percent != nil {
		m.Percent = goals.ClampMilestonePercent(*patch.Percent)
	}
	if patch.ClearDueDate {
		m.DueDate = nil
	} else if patch.DueDate != nil {
		due := *patch.DueDate
		m.DueDate = &due
	}
	return *m, nil
}

// RemoveMilestone drops the milestone with id. Unknown ids are ignored.
func (w *Wizard) RemoveMilestone(id uuid.UUID) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	kept := w.draft.Milestones[:0]
	for _, m := range w.draft.Milestones {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	w.draft.Milestones = kept
	return nil
}

// OpenDatePicker returns the value a picker for target should start at and
// remembers the pending target.
func (w *Wizard) OpenDatePicker(target DatePick) (time.Time, error) {
	if err := w.beginEdit(); err != nil {
		return time.Time{}, err
	}
	current, err := w.dateValue(target)
	if err != nil {
		return time.Time{}, err
	}
	w.draft.Picker = &target
	if current == nil {
		return w.deps.Now(), nil
	}
	return *current, nil
}

// ApplyDateValue writes date to the field named by target and clears the
// pending picker.
func (w *Wizard) ApplyDateValue(target DatePick, date time.Time) error {
	return w.setDate(target, &date)
}

// ClearDate removes an optional date.
func (w *Wizard) ClearDate(target DatePick) error {
	return w.setDate(target, nil)
}

func (w *Wizard) setDate(target DatePick, date *time.Time) error {
	if err := w.beginEdit(); err != nil {
		return err
	}
	switch target.Kind {
	case DateStart:
		w.draft.StartDate = date
	case DateTarget:
		w.draft.TargetDate = date
	case DateMilestone:
		i := w.draft.milestoneIndex(target.MilestoneID)
		if i < 0 {
			return ErrMilestoneNotFound
		}
		w.draft.Milestones[i].DueDate = date
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDateTarget, target.Kind)
	}
	w.draft.Picker = nil
	return nil
}

func (w *Wizard) dateValue(target DatePick) (*time.Time, error) {
	switch target.Kind {
	case DateStart:
		return w.draft.StartDate, nil
	case DateTarget:
		return w.draft.TargetDate, nil
	case DateMilestone:
		i := w.draft.milestoneIndex(target.MilestoneID)
		if i < 0 {
			return nil, ErrMilestoneNotFound
		}
		return w.draft.Milestones[i].DueDate, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDateTarget, target.Kind)
}

// Preview holds read-only values derived from the draft.
type Preview struct {
	Progress   *float64           `json:"progress,omitempty"`
	Stats      *goals.Stats       `json:"stats,omitempty"`
	Unit       string             `json:"unit,omitempty"`
	Milestones []MilestonePreview `json:"milestones"`
}

type MilestonePreview struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Percent     int       `json:"percent"`
	TargetValue *float64  `json:"targetValue,omitempty"`
}

// Preview computes progress and milestone values for display. Nothing is
// computed against a missing or non-positive target.
func (w *Wizard) Preview() (Preview, error) {
	if w.state == StateClosed {
		return Preview{}, ErrClosed
	}
	d := &w.draft
	p := Preview{Unit: d.resolvedUnit(), Milestones: []MilestonePreview{}}

	target, ok := goals.ParseNumericInput(d.TargetValueText)
	valid := ok && target > 0
	if valid {
		current, _ := goals.ParseNumericInput(d.CurrentValueText)
		progress := goals.ComputeProgress(current, target)
		stats := goals.DeriveStats(d.MetricType, progress)
		p.Progress = &progress
		p.Stats = &stats
	}
	for _, m := range d.Milestones {
		mp := MilestonePreview{ID: m.ID, Title: strings.TrimSpace(m.Title), Percent: m.Percent}
		if valid {
			v := target * float64(m.Percent) / 100
			mp.TargetValue = &v
		}
		p.Milestones = append(p.Milestones, mp)
	}
	return p, nil
}
