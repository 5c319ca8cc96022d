package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/arnold/goalplan-api/internal/middleware"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/arnold/goalplan-api/internal/store"
	"github.com/arnold/goalplan-api/internal/wizard"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// Wizard DTOs
type openWizardRequest struct {
	Mode   wizard.Mode `json:"mode"`
	GoalID *uuid.UUID  `json:"goalId"`
}

type wizardFieldsRequest struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	GoalType     *goals.GoalType    `json:"goalType"`
	MetricType   *goals.MetricType  `json:"metricType"`
	Unit         *string            `json:"unit"`
	CustomUnit   *string            `json:"customUnit"`
	FinanceMode  *goals.FinanceMode `json:"financeMode"`
	Currency     *string            `json:"currency"`
	TargetValue  *string            `json:"targetValue"`
	CurrentValue *string            `json:"currentValue"`
}

type scenarioRequest struct {
	Scenario goals.Scenario `json:"scenario"`
}

type templateRequest struct {
	TemplateID string          `json:"templateId"`
	Scenario   *goals.Scenario `json:"scenario"`
}

type milestonePatchRequest struct {
	Title        *string    `json:"title"`
	Percent      *float64   `json:"percent"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
}

type dateRequest struct {
	Kind        wizard.DateKind `json:"kind"`
	MilestoneID uuid.UUID       `json:"milestoneId"`
	Date        *time.Time      `json:"date"`
}

type submitRequest struct {
	After wizard.After `json:"after"`
}

type wizardView struct {
	ID           uuid.UUID            `json:"id"`
	State        wizard.State         `json:"state"`
	Mode         wizard.Mode          `json:"mode,omitempty"`
	Language     string               `json:"language"`
	Draft        wizard.Draft         `json:"draft"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
	AutoPlan     *wizard.AutoPlanView `json:"autoPlan,omitempty"`
}

// view must be called with the session lock held.
func (s *session) view() wizardView {
	draft := s.wiz.Draft()
	v := wizardView{
		ID:       s.id,
		State:    s.wiz.State(),
		Mode:     s.wiz.Mode(),
		Language: s.lang,
		Draft:    draft,
	}
	if draft.ErrorKey != "" {
		v.ErrorMessage = bundle.Strings(s.lang).Get(string(draft.ErrorKey))
	}
	if plan, err := s.wiz.AutoPlan(); err == nil {
		v.AutoPlan = &plan
	}
	return v
}

func (s *session) language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func sessionFor(c *fiber.Ctx) (*session, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	return Sessions.get(id, middleware.GetUserID(c))
}

func sessionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Wizard session not found",
	})
}

// wizardError maps engine errors to HTTP responses. Validation failures carry
// the error key and the message in the session's language.
func wizardError(c *fiber.Ctx, s *session, err error) error {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":    bundle.Strings(s.language()).Get(string(verr.Key)),
			"errorKey": verr.Key,
		})
	case errors.Is(err, wizard.ErrClosed), errors.Is(err, wizard.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, wizard.ErrMilestoneNotFound), errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, wizard.ErrUnknownTemplate),
		errors.Is(err, wizard.ErrUnknownScenario),
		errors.Is(err, wizard.ErrUnknownGoalType),
		errors.Is(err, wizard.ErrUnknownMetric),
		errors.Is(err, wizard.ErrUnknownFinance),
		errors.Is(err, wizard.ErrUnknownUnit),
		errors.Is(err, wizard.ErrUnitWithAmount),
		errors.Is(err, wizard.ErrUnknownDateTarget),
		errors.Is(err, wizard.ErrUnknownSuggestion),
		errors.Is(err, wizard.ErrInvalidCurrency):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("WIZARD: session %s: %v", s.id, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to save changes",
	})
}

// applyEvent runs fn against the session's wizard and responds with the
// resulting view.
func applyEvent(c *fiber.Ctx, fn func(w *wizard.Wizard) error) error {
	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}
	var view wizardView
	err := s.run(func(w *wizard.Wizard) error {
		if err := fn(w); err != nil {
			return err
		}
		view = s.view()
		return nil
	})
	if err != nil {
		return wizardError(c, s, err)
	}
	return c.JSON(view)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

// OpenWizard starts a create session, or an edit session for goalId
func OpenWizard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req openWizardRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}
	if req.Mode == "" {
		req.Mode = wizard.ModeCreate
	}
	goalID := uuid.Nil
	if req.GoalID != nil {
		goalID = *req.GoalID
	}
	switch req.Mode {
	case wizard.ModeCreate:
	case wizard.ModeEdit:
		if goalID == uuid.Nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "goalId is required to edit a goal",
			})
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Mode must be create or edit",
		})
	}

	lang := userLanguage(c, userID)
	wiz := wizard.New(userID, wizard.Deps{
		Catalog: goalCat,
		Goals:   goalStore,
		Habits:  habitStore,
		Tasks:   taskStore,
		Prefs:   preferences,
		Strings: bundle.Strings(lang),
	})
	if err := wiz.Open(c.UserContext(), req.Mode, goalID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Goal not found",
			})
		}
		log.Printf("WIZARD: open for user %s failed: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to open wizard",
		})
	}

	s := Sessions.add(userID, lang, wiz)
	var view wizardView
	s.run(func(*wizard.Wizard) error {
		view = s.view()
		return nil
	})
	return c.Status(fiber.StatusCreated).JSON(view)
}

func GetWizard(c *fiber.Ctx) error {
	return applyEvent(c, func(*wizard.Wizard) error { return nil })
}

// CloseWizard discards the session whatever state it is in
func CloseWizard(c *fiber.Ctx) error {
	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}
	s.run(func(w *wizard.Wizard) error {
		w.Close()
		return nil
	})
	Sessions.remove(s.id)
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateWizardFields applies the given field edits in a fixed order: goal
// type and metric first so their default units do not overwrite an explicit
// unit in the same request.
func UpdateWizardFields(c *fiber.Ctx) error {
	var req wizardFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return applyEvent(c, func(w *wizard.Wizard) error {
		steps := []func() error{}
		if req.GoalType != nil {
			steps = append(steps, func() error { return w.HandleGoalTypeChange(*req.GoalType) })
		}
		if req.MetricType != nil {
			steps = append(steps, func() error { return w.HandleMetricChange(*req.MetricType) })
		}
		if req.Unit != nil {
			steps = append(steps, func() error { return w.SetUnit(*req.Unit) })
		}
		if req.CustomUnit != nil {
			steps = append(steps, func() error { return w.SetCustomUnit(*req.CustomUnit) })
		}
		if req.FinanceMode != nil {
			steps = append(steps, func() error { return w.SetFinanceMode(*req.FinanceMode) })
		}
		if req.Currency != nil {
			steps = append(steps, func() error { return w.SetCurrency(*req.Currency) })
		}
		if req.Title != nil {
			steps = append(steps, func() error { return w.SetTitle(*req.Title) })
		}
		if req.Description != nil {
			steps = append(steps, func() error { return w.SetDescription(*req.Description) })
		}
		if req.TargetValue != nil {
			steps = append(steps, func() error { return w.SetTargetValue(*req.TargetValue) })
		}
		if req.CurrentValue != nil {
			steps = append(steps, func() error { return w.SetCurrentValue(*req.CurrentValue) })
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}

func SelectWizardScenario(c *fiber.Ctx) error {
	var req scenarioRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return applyEvent(c, func(w *wizard.Wizard) error {
		return w.HandleScenarioSelect(req.Scenario)
	})
}

func ApplyWizardTemplate(c *fiber.Ctx) error {
	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return applyEvent(c, func(w *wizard.Wizard) error {
		if req.Scenario == nil {
			return w.ApplyTemplateByID(req.TemplateID)
		}
		if !req.Scenario.Valid() {
			return wizard.ErrUnknownScenario
		}
		t, ok := goalCat.Template(req.TemplateID)
		if !ok {
			return wizard.ErrUnknownTemplate
		}
		return w.ApplyTemplate(t, req.Scenario)
	})
}

func AddWizardMilestone(c *fiber.Ctx) error {
	return applyEvent(c, func(w *wizard.Wizard) error {
		_, err := w.AddMilestone()
		return err
	})
}

func UpdateWizardMilestone(c *fiber.Ctx) error {
	milestoneID, ok := paramID(c, "milestoneId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid milestone ID",
		})
	}
	var req milestonePatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return applyEvent(c, func(w *wizard.Wizard) error {
		_, err := w.UpdateMilestone(milestoneID, wizard.MilestonePatch{
			Title:        req.Title,
			Percent:      req.Percent,
			DueDate:      req.DueDate,
			ClearDueDate: req.ClearDueDate,
		})
		return err
	})
}

func RemoveWizardMilestone(c *fiber.Ctx) error {
	milestoneID, ok := paramID(c, "milestoneId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid milestone ID",
		})
	}
	return applyEvent(c, func(w *wizard.Wizard) error {
		return w.RemoveMilestone(milestoneID)
	})
}

// OpenWizardDatePicker returns the date the picker should start at
func OpenWizardDatePicker(c *fiber.Ctx) error {
	var req wizard.DatePick
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}
	var initial time.Time
	var view wizardView
	err := s.run(func(w *wizard.Wizard) error {
		var err error
		if initial, err = w.OpenDatePicker(req); err != nil {
			return err
		}
		view = s.view()
		return nil
	})
	if err != nil {
		return wizardError(c, s, err)
	}
	return c.JSON(fiber.Map{
		"initialDate": initial,
		"wizard":      view,
	})
}

// SetWizardDate writes or, with a null date, clears a date field
func SetWizardDate(c *fiber.Ctx) error {
	var req dateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	target := wizard.DatePick{Kind: req.Kind, MilestoneID: req.MilestoneID}
	return applyEvent(c, func(w *wizard.Wizard) error {
		if req.Date == nil {
			return w.ClearDate(target)
		}
		return w.ApplyDateValue(target, *req.Date)
	})
}

func GetWizardPreview(c *fiber.Ctx) error {
	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}
	var preview wizard.Preview
	err := s.run(func(w *wizard.Wizard) error {
		var err error
		preview, err = w.Preview()
		return err
	})
	if err != nil {
		return wizardError(c, s, err)
	}
	return c.JSON(preview)
}

// SubmitWizard commits the draft. Notifications, activity and realtime
// events are sent after the session lock is released. A session whose wizard
// closed is dropped from the registry.
func SubmitWizard(c *fiber.Ctx) error {
	var req submitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}
	if req.After == "" {
		req.After = wizard.AfterClose
	}

	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}

	var res *wizard.Result
	var view wizardView
	var lang string
	err := s.run(func(w *wizard.Wizard) error {
		var err error
		if res, err = w.Submit(c.UserContext(), req.After); err != nil {
			return err
		}
		view = s.view()
		lang = s.lang
		return nil
	})
	if err != nil {
		return wizardError(c, s, err)
	}

	goal := res.Goal
	goalID := goal.ID
	if res.Created {
		LogActivity(s.owner, &goalID, models.ActionGoalCreated, map[string]interface{}{
			"title":    goal.Payload.Title,
			"goalType": goal.Payload.GoalType,
		})
		table := bundle.Strings(lang)
		CreateNotification(s.owner, models.NotificationGoalCreated,
			table.Get("goalCreatedTitle"),
			table.Format("goalCreatedBody", goal.Payload.Title),
			map[string]interface{}{"goalId": goalID.String()},
		)
		WS.Send(s.owner, WSEvent{Type: EventGoalCreated, GoalID: goalID.String(), Data: goal})
	} else {
		LogActivity(s.owner, &goalID, models.ActionGoalUpdated, nil)
		if stored, err := goalStore.Goal(c.UserContext(), s.owner, goalID); err == nil {
			res.Goal = stored
			Sessions.Refresh(s.owner, stored, s.id)
		} else {
			log.Printf("WIZARD: reload goal %s after update: %v", goalID, err)
		}
		WS.Send(s.owner, WSEvent{Type: EventGoalUpdated, GoalID: goalID.String(), Data: res.Goal})
	}
	Sessions.dropIfClosed(s, view.State)

	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"result": res,
		"wizard": view,
	})
}

func GetAutoPlan(c *fiber.Ctx) error {
	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}
	var plan wizard.AutoPlanView
	err := s.run(func(w *wizard.Wizard) error {
		var err error
		plan, err = w.AutoPlan()
		return err
	})
	if err != nil {
		return wizardError(c, s, err)
	}
	return c.JSON(plan)
}

func ToggleAutoPlanHabit(c *fiber.Ctx) error {
	return toggleSuggestion(c, (*wizard.Wizard).ToggleHabit)
}

func ToggleAutoPlanTask(c *fiber.Ctx) error {
	return toggleSuggestion(c, (*wizard.Wizard).ToggleTask)
}

func toggleSuggestion(c *fiber.Ctx, toggle func(*wizard.Wizard, string) (bool, error)) error {
	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}
	// Params point into the request buffer; the id outlives the request.
	suggestionID := utils.CopyString(c.Params("sid"))
	var selected bool
	var plan wizard.AutoPlanView
	err := s.run(func(w *wizard.Wizard) error {
		var err error
		if selected, err = toggle(w, suggestionID); err != nil {
			return err
		}
		plan, err = w.AutoPlan()
		return err
	})
	if err != nil {
		return wizardError(c, s, err)
	}
	return c.JSON(fiber.Map{
		"id":       suggestionID,
		"selected": selected,
		"autoPlan": plan,
	})
}

// CommitAutoPlan creates the selected habits and tasks. When some of them
// fail the session stays in auto-plan with the failures still selected.
func CommitAutoPlan(c *fiber.Ctx) error {
	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}

	var res wizard.CommitResult
	var view wizardView
	var lang string
	err := s.run(func(w *wizard.Wizard) error {
		var err error
		res, err = w.CommitSelections(c.UserContext())
		view = s.view()
		lang = s.lang
		return err
	})

	if errors.Is(err, wizard.ErrClosed) || errors.Is(err, wizard.ErrInvalidState) {
		return wizardError(c, s, err)
	}

	goalID := res.GoalID
	if res.HabitsCreated+res.TasksCreated > 0 {
		LogActivity(s.owner, &goalID, models.ActionAutoPlanCommitted, map[string]interface{}{
			"habits": res.HabitsCreated,
			"tasks":  res.TasksCreated,
		})
		WS.Send(s.owner, WSEvent{Type: EventAutoPlanCommitted, GoalID: goalID.String(), Data: res})
	}

	if err != nil {
		log.Printf("WIZARD: auto-plan commit for goal %s partly failed: %v", goalID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "Some suggestions could not be created",
			"result": res,
			"wizard": view,
		})
	}

	Sessions.dropIfClosed(s, view.State)

	if res.HabitsCreated+res.TasksCreated > 0 {
		title := ""
		if g, err := goalStore.Goal(c.UserContext(), s.owner, goalID); err == nil {
			title = g.Payload.Title
		}
		table := bundle.Strings(lang)
		CreateNotification(s.owner, models.NotificationAutoPlanDone,
			table.Get("autoPlanTitle"),
			table.Format("autoPlanBody", res.HabitsCreated, res.TasksCreated, title),
			map[string]interface{}{"goalId": goalID.String()},
		)
	}

	return c.JSON(fiber.Map{
		"result": res,
		"wizard": view,
	})
}

func SkipAutoPlan(c *fiber.Ctx) error {
	s, ok := sessionFor(c)
	if !ok {
		return sessionNotFound(c)
	}
	var goalID uuid.UUID
	var view wizardView
	err := s.run(func(w *wizard.Wizard) error {
		plan, err := w.AutoPlan()
		if err != nil {
			return err
		}
		goalID = plan.GoalID
		if err := w.Skip(); err != nil {
			return err
		}
		view = s.view()
		return nil
	})
	if err != nil {
		return wizardError(c, s, err)
	}
	Sessions.dropIfClosed(s, view.State)
	LogActivity(s.owner, &goalID, models.ActionAutoPlanSkipped, nil)
	return c.JSON(view)
}
