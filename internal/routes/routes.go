package routes

import (
	"github.com/arnold/goalplan-api/internal/handlers"
	"github.com/arnold/goalplan-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func Setup(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/google", handlers.GoogleLogin)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)

	// Static catalogs
	catalog := protected.Group("/catalog")
	catalog.Get("/units", handlers.GetUnits)
	catalog.Get("/units/default", handlers.GetDefaultUnit)
	catalog.Get("/templates", handlers.GetTemplates)
	catalog.Get("/scenarios", handlers.GetScenarios)
	catalog.Get("/suggestions/:goalType", handlers.GetSuggestions)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Get("/:id", handlers.GetGoal)
	goals.Delete("/:id", handlers.DeleteGoal)
	goals.Post("/:id/budget", handlers.LinkGoalBudget)
	goals.Post("/:id/debt", handlers.LinkGoalDebt)

	// Goal wizard sessions
	wizard := protected.Group("/wizard")
	wizard.Post("/", handlers.OpenWizard)
	wizard.Get("/:id", handlers.GetWizard)
	wizard.Delete("/:id", handlers.CloseWizard)
	wizard.Patch("/:id", handlers.UpdateWizardFields)
	wizard.Post("/:id/scenario", handlers.SelectWizardScenario)
	wizard.Post("/:id/template", handlers.ApplyWizardTemplate)
	wizard.Post("/:id/milestones", handlers.AddWizardMilestone)
	wizard.Patch("/:id/milestones/:milestoneId", handlers.UpdateWizardMilestone)
	wizard.Delete("/:id/milestones/:milestoneId", handlers.RemoveWizardMilestone)
	wizard.Post("/:id/date-picker", handlers.OpenWizardDatePicker)
	wizard.Put("/:id/dates", handlers.SetWizardDate)
	wizard.Get("/:id/preview", handlers.GetWizardPreview)
	wizard.Post("/:id/submit", handlers.SubmitWizard)
	wizard.Get("/:id/auto-plan", handlers.GetAutoPlan)
	wizard.Post("/:id/auto-plan/habits/:sid", handlers.ToggleAutoPlanHabit)
	wizard.Post("/:id/auto-plan/tasks/:sid", handlers.ToggleAutoPlanTask)
	wizard.Post("/:id/auto-plan/commit", handlers.CommitAutoPlan)
	wizard.Post("/:id/auto-plan/skip", handlers.SkipAutoPlan)

	finance := protected.Group("/finance")
	finance.Get("/budgets", handlers.GetBudgets)
	finance.Post("/budgets", handlers.CreateBudget)
	finance.Get("/debts", handlers.GetDebts)
	finance.Post("/debts", handlers.CreateDebt)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllRead)

	// Device token for push notifications
	protected.Post("/device-token", handlers.RegisterDeviceToken)

	protected.Get("/activity", handlers.GetActivity)

	// WebSocket for real-time goal updates
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/goals", websocket.New(handlers.HandleWebSocket))
}
