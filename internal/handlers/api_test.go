package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/config"
	"github.com/arnold/goalplan-api/internal/database"
	"github.com/arnold/goalplan-api/internal/handlers"
	"github.com/arnold/goalplan-api/internal/i18n"
	"github.com/arnold/goalplan-api/internal/middleware"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/arnold/goalplan-api/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	database.DB = db

	middleware.Configure("test-secret")
	handlers.Init(&config.Config{DefaultCurrency: "USD", DefaultLocale: "en"}, catalog.MustDefault(), i18n.MustLoad())
	handlers.Sessions = handlers.NewSessionRegistry()
	handlers.WS = handlers.NewHub()

	app := fiber.New()
	routes.Setup(app)
	return app
}

func (c *apiClient) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	} else if len(raw) > 0 {
		var list []interface{}
		if json.Unmarshal(raw, &list) == nil {
			out["items"] = list
		}
	}
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, email, currency string) *apiClient {
	t.Helper()
	c := &apiClient{t: t, app: app}
	status, body := c.do("POST", "/api/auth/register", map[string]string{
		"email":        email,
		"password":     "secret123",
		"baseCurrency": currency,
	})
	require.Equal(t, http.StatusCreated, status, body)
	c.token = body["token"].(string)
	return c
}

func field(m map[string]interface{}, path ...string) interface{} {
	var cur interface{} = m
	for _, p := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = obj[p]
	}
	return cur
}

func TestWizardCreateAutoPlanAndLinkBudget(t *testing.T) {
	app := newTestApp(t)
	c := register(t, app, "ana@example.com", "eur")

	status, body := c.do("POST", "/api/wizard", nil)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "empty", body["state"])
	sid := body["id"].(string)
	base := "/api/wizard/" + sid

	status, body = c.do("POST", base+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "missingTitle", body["errorKey"])
	assert.Equal(t, "Please enter a goal title.", body["error"])

	status, body = c.do("POST", base+"/template", map[string]string{"templateId": "travel-budget"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "editing", body["state"])
	assert.Equal(t, "Travel budget", field(body, "draft", "title"))
	assert.Equal(t, "EUR", field(body, "draft", "currency"))
	assert.Equal(t, "financialSpend", field(body, "draft", "scenario"))
	assert.Len(t, field(body, "draft", "milestones"), 2)

	status, body = c.do("PATCH", base, map[string]string{"currentValue": "500"})
	require.Equal(t, http.StatusOK, status, body)

	status, body = c.do("GET", base+"/preview", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.InDelta(t, 0.25, body["progress"], 1e-9)
	assert.InDelta(t, 0.25, field(body, "stats", "financialProgressPercent"), 1e-9)

	status, body = c.do("POST", base+"/submit", map[string]string{"after": "autoPlan"})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "autoPlan", field(body, "wizard", "state"))
	assert.Equal(t, true, field(body, "result", "created"))
	goalID := field(body, "result", "goal", "id").(string)
	assert.Equal(t, "EUR", field(body, "result", "goal", "currency"))
	assert.Equal(t, "spend", field(body, "result", "goal", "financeMode"))
	assert.Nil(t, field(body, "result", "goal", "unit"))

	status, body = c.do("PATCH", base, map[string]string{"title": "late edit"})
	assert.Equal(t, http.StatusConflict, status, body)

	status, body = c.do("GET", base+"/auto-plan", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, goalID, body["goalId"])
	assert.Len(t, body["habits"], 3)
	assert.Len(t, body["tasks"], 3)

	status, body = c.do("POST", base+"/auto-plan/habits/fin-track-expenses", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["selected"])

	status, _ = c.do("POST", base+"/auto-plan/habits/fin-round-up", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do("POST", base+"/auto-plan/commit", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 1, field(body, "result", "habitsCreated"))
	assert.EqualValues(t, 0, field(body, "result", "tasksCreated"))
	assert.Equal(t, "closed", field(body, "wizard", "state"))

	status, _ = c.do("GET", base, nil)
	assert.Equal(t, http.StatusNotFound, status, "closed sessions are dropped")

	status, body = c.do("GET", "/api/goals", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 1, body["total"])

	status, body = c.do("GET", "/api/goals/"+goalID, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "financialSpend", body["scenario"])
	assert.Len(t, field(body, "goal", "milestones"), 2)

	status, body = c.do("GET", "/api/notifications", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 2, body["unread"])

	status, body = c.do("GET", "/api/activity?goalId="+goalID, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 2, body["total"])

	status, body = c.do("POST", "/api/goals/"+goalID+"/debt", nil)
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, body = c.do("POST", "/api/goals/"+goalID+"/budget", nil)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "2000", body["limit"])
	assert.Equal(t, "500", body["spent"])
	assert.Equal(t, goalID, body["goalId"])

	status, body = c.do("GET", "/api/finance/budgets", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["items"], 1)
}

func TestAutoPlanSelectionsSurviveLaterRequests(t *testing.T) {
	app := newTestApp(t)
	c := register(t, app, "cleo@example.com", "")

	_, body := c.do("POST", "/api/wizard", nil)
	base := "/api/wizard/" + body["id"].(string)
	status, body := c.do("PATCH", base, map[string]interface{}{
		"goalType":    "health",
		"metricType":  "count",
		"title":       "Get fit",
		"targetValue": "100",
	})
	require.Equal(t, http.StatusOK, status, body)
	status, body = c.do("POST", base+"/submit", map[string]string{"after": "autoPlan"})
	require.Equal(t, http.StatusCreated, status, body)
	goalID := field(body, "result", "goal", "id").(string)

	status, body = c.do("POST", base+"/auto-plan/habits/health-workout", nil)
	require.Equal(t, http.StatusOK, status, body)
	status, body = c.do("GET", "/api/goals", nil)
	require.Equal(t, http.StatusOK, status, body)
	status, body = c.do("POST", base+"/auto-plan/habits/health-sleep", nil)
	require.Equal(t, http.StatusOK, status, body)
	status, _ = c.do("POST", base+"/auto-plan/habits/not-offered-at-all", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = c.do("GET", "/api/catalog/suggestions/education", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = c.do("GET", base+"/auto-plan", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, []interface{}{"health-workout", "health-sleep"}, body["selectedHabits"])

	status, body = c.do("POST", base+"/auto-plan/commit", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 2, field(body, "result", "habitsCreated"))
	assert.EqualValues(t, 0, field(body, "result", "tasksCreated"))

	var habits []models.Habit
	require.NoError(t, database.DB.Where("goal_id = ?", goalID).Find(&habits).Error)
	require.Len(t, habits, 2)
	titles := []string{habits[0].Title, habits[1].Title}
	assert.ElementsMatch(t, []string{"Daily workout", "Sleep by 11pm"}, titles)
	for _, h := range habits {
		assert.Equal(t, "health", h.HabitType)
	}

	status, _ = c.do("GET", base, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

type recordingDevice struct {
	events []handlers.WSEvent
}

func (d *recordingDevice) WriteMessage(_ int, data []byte) error {
	var ev handlers.WSEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}
	d.events = append(d.events, ev)
	return nil
}

func TestWizardEditBroadcastsStoredGoal(t *testing.T) {
	app := newTestApp(t)
	c := register(t, app, "dana@example.com", "")
	_, me := c.do("GET", "/api/me", nil)
	userID := uuid.MustParse(me["id"].(string))
	device := &recordingDevice{}
	handlers.WS.RegisterDevice(userID, device)

	_, body := c.do("POST", "/api/wizard", nil)
	base := "/api/wizard/" + body["id"].(string)
	c.do("PATCH", base, map[string]string{"title": "Save up", "targetValue": "1000"})
	status, body := c.do("POST", base+"/submit", nil)
	require.Equal(t, http.StatusCreated, status, body)
	goalID := field(body, "result", "goal", "id").(string)

	_, body = c.do("POST", "/api/wizard", map[string]string{"mode": "edit", "goalId": goalID})
	edit := "/api/wizard/" + body["id"].(string)
	c.do("PATCH", edit, map[string]string{"title": "Save more"})
	status, body = c.do("POST", edit+"/submit", nil)
	require.Equal(t, http.StatusOK, status, body)
	result := field(body, "result", "goal")

	_, stored := c.do("GET", "/api/goals/"+goalID, nil)
	createdAt := field(stored, "goal", "createdAt")
	assert.NotEqual(t, "0001-01-01T00:00:00Z", createdAt)
	assert.Equal(t, createdAt, result.(map[string]interface{})["createdAt"])
	assert.Equal(t, field(stored, "goal", "updatedAt"), result.(map[string]interface{})["updatedAt"])

	status, _ = c.do("GET", edit, nil)
	assert.Equal(t, http.StatusNotFound, status)

	require.Len(t, device.events, 2)
	updated := device.events[1]
	assert.Equal(t, handlers.EventGoalUpdated, updated.Type)
	assert.Equal(t, goalID, updated.GoalID)
	data := updated.Data.(map[string]interface{})
	assert.Equal(t, "Save more", data["title"])
	assert.Equal(t, createdAt, data["createdAt"])
}

func TestWizardEditFlow(t *testing.T) {
	app := newTestApp(t)
	c := register(t, app, "ben@example.com", "")

	_, body := c.do("POST", "/api/wizard", nil)
	base := "/api/wizard/" + body["id"].(string)
	status, body := c.do("PATCH", base, map[string]interface{}{
		"goalType":    "health",
		"metricType":  "count",
		"title":       "Ride the bike",
		"targetValue": "50",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "workouts", field(body, "draft", "unit"))

	status, body = c.do("POST", base+"/submit", map[string]string{"after": "keepOpen"})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "empty", field(body, "wizard", "state"))
	assert.Equal(t, "", field(body, "wizard", "draft", "title"))
	goalID := field(body, "result", "goal", "id").(string)

	status, body = c.do("POST", "/api/wizard", map[string]string{"mode": "edit", "goalId": goalID})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "editing", body["state"])
	assert.Equal(t, "50", field(body, "draft", "targetValue"))
	assert.Equal(t, goalID, field(body, "draft", "editingGoalId"))
	edit := "/api/wizard/" + body["id"].(string)

	status, body = c.do("POST", edit+"/milestones", nil)
	require.Equal(t, http.StatusOK, status, body)
	ms := field(body, "draft", "milestones").([]interface{})
	require.Len(t, ms, 1)
	assert.Equal(t, "25% Complete", ms[0].(map[string]interface{})["title"])

	status, body = c.do("PATCH", edit, map[string]string{"title": "Ride further", "unit": "kilometers"})
	require.Equal(t, http.StatusOK, status, body)

	status, body = c.do("POST", edit+"/submit", map[string]string{"after": "autoPlan"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "closed", field(body, "wizard", "state"))
	assert.Equal(t, false, field(body, "result", "created"))

	status, body = c.do("GET", "/api/goals/"+goalID, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Ride further", field(body, "goal", "title"))
	assert.Equal(t, "kilometers", field(body, "goal", "unit"))
	assert.Nil(t, field(body, "goal", "currency"))
	assert.Len(t, field(body, "goal", "milestones"), 1)

	status, _ = c.do("DELETE", "/api/goals/"+goalID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = c.do("GET", "/api/goals/"+goalID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWizardSessionsArePrivate(t *testing.T) {
	app := newTestApp(t)
	owner := register(t, app, "owner@example.com", "USD")
	other := register(t, app, "other@example.com", "USD")

	_, body := owner.do("POST", "/api/wizard", nil)
	base := "/api/wizard/" + body["id"].(string)

	status, _ := other.do("GET", base, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = owner.do("DELETE", base, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = owner.do("GET", base, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = owner.do("POST", "/api/wizard", map[string]string{"mode": "edit", "goalId": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLocalizedMilestoneTitles(t *testing.T) {
	app := newTestApp(t)
	c := register(t, app, "ivan@example.com", "RUB")

	status, body := c.do("PUT", "/api/me", map[string]string{"locale": "ru-RU"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "ru", body["locale"])

	_, body = c.do("POST", "/api/wizard", nil)
	assert.Equal(t, "ru", body["language"])
	base := "/api/wizard/" + body["id"].(string)

	status, body = c.do("POST", base+"/scenario", map[string]string{"scenario": "financialSave"})
	require.Equal(t, http.StatusOK, status, body)
	ms := field(body, "draft", "milestones").([]interface{})
	require.Len(t, ms, 3)
	assert.Equal(t, "Выполнено на 25%", ms[0].(map[string]interface{})["title"])
	assert.Equal(t, "RUB", field(body, "draft", "currency"))

	status, body = c.do("PATCH", base, map[string]string{"targetValue": "abc"})
	require.Equal(t, http.StatusOK, status, body)
	status, body = c.do("POST", base+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "invalidTarget", body["errorKey"])
	assert.Equal(t, "Целевое значение должно быть числом больше нуля.", body["error"])
}

func TestCatalogEndpoints(t *testing.T) {
	app := newTestApp(t)
	c := register(t, app, "cat@example.com", "")

	status, body := c.do("GET", "/api/catalog/units/default?metricType=count&goalType=education", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "books", body["unit"])

	status, body = c.do("GET", "/api/catalog/units?metricType=duration&goalType=education", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 4)

	status, body = c.do("GET", "/api/catalog/suggestions/education", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["habits"], 3)

	status, _ = c.do("GET", "/api/catalog/suggestions/cooking", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = c.do("GET", "/api/catalog/scenarios", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 5)

	status, _ = (&apiClient{t: t, app: app}).do("GET", "/api/catalog/templates", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
