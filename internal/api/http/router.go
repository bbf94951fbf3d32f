package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/api/http/handlers"
	"github.com/recupera/collections-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Clients        *handlers.ClientsHandler
	Creditors      *handlers.CreditorsHandler
	Charges        *handlers.ChargesHandler
	Agreements     *handlers.AgreementsHandler
	Appointments   *handlers.AppointmentsHandler
	Finance        *handlers.FinanceHandler
	Admin          *handlers.AdminHandler
	Audit          *handlers.AuditHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   fiber.Handler
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	authGroup := app.Group("/auth")
	if cfg.LoginLimiter != nil {
		authGroup.Post("/login", cfg.LoginLimiter, cfg.Auth.Login)
	} else {
		authGroup.Post("/login", cfg.Auth.Login)
	}
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/recover", cfg.Auth.Recover)
	authGroup.Post("/reset", cfg.Auth.Reset)
	authGroup.Post("/logout", cfg.Auth.Logout)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/verify", cfg.Auth.Verify)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/dashboard/summary", cfg.Dashboard.Summary)

	clients := protected.Group("/clients")
	clients.Post("", cfg.Clients.CreateClient)
	clients.Get("", cfg.Clients.ListClients)
	clients.Get("/:id", cfg.Clients.GetClient)
	clients.Put("/:id", cfg.Clients.UpdateClient)
	clients.Delete("/:id", cfg.Clients.DeleteClient)
	clients.Get("/:id/whatsapp-link", cfg.Clients.WhatsAppLink)

	creditors := protected.Group("/creditors")
	creditors.Post("", cfg.Creditors.CreateCreditor)
	creditors.Get("", cfg.Creditors.ListCreditors)
	creditors.Get("/:id", cfg.Creditors.GetCreditor)
	creditors.Put("/:id", cfg.Creditors.UpdateCreditor)
	creditors.Delete("/:id", cfg.Creditors.DeleteCreditor)

	charges := protected.Group("/charges")
	charges.Post("", cfg.Charges.CreateCharge)
	charges.Get("", cfg.Charges.ListCharges)
	charges.Get("/:id", cfg.Charges.GetCharge)
	charges.Put("/:id", cfg.Charges.UpdateCharge)
	charges.Post("/:id/cancel", cfg.Charges.CancelCharge)
	charges.Post("/:id/payments", cfg.Charges.RecordPayment)
	charges.Get("/:id/payments", cfg.Charges.ListPayments)
	charges.Get("/:id/agreements", cfg.Agreements.ListByCharge)

	agreements := protected.Group("/agreements")
	agreements.Post("", cfg.Agreements.CreateAgreement)
	agreements.Get("", cfg.Agreements.ListAgreements)
	agreements.Get("/:id", cfg.Agreements.GetAgreement)
	agreements.Post("/:id/installments/:number/pay", cfg.Agreements.PayInstallment)

	appointments := protected.Group("/appointments")
	appointments.Post("", cfg.Appointments.CreateAppointment)
	appointments.Get("", cfg.Appointments.ListAppointments)
	appointments.Get("/:id", cfg.Appointments.GetAppointment)
	appointments.Patch("/:id", cfg.Appointments.UpdateStatus)
	appointments.Delete("/:id", cfg.Appointments.DeleteAppointment)

	commissions := protected.Group("/commissions")
	commissions.Get("", cfg.Finance.ListCommissions)
	commissions.Get("/summary", cfg.Finance.CommissionSummary)

	users := protected.Group("/users", auth.RequireAdmin())
	users.Post("", cfg.Users.CreateUser)
	users.Get("", cfg.Users.ListUsers)
	users.Patch("/:id/active", cfg.Users.SetActive)

	remittances := protected.Group("/remittances", auth.RequireAdmin())
	remittances.Post("", cfg.Finance.CloseRemittance)
	remittances.Get("", cfg.Finance.ListRemittances)
	remittances.Get("/:id", cfg.Finance.GetRemittance)

	companies := protected.Group("/companies", auth.RequireAdmin())
	companies.Post("", cfg.Admin.CreateCompany)
	companies.Get("", cfg.Admin.ListCompanies)
	companies.Get("/:id", cfg.Admin.GetCompany)
	companies.Put("/:id", cfg.Admin.UpdateCompany)
	companies.Delete("/:id", cfg.Admin.DeleteCompany)

	settings := protected.Group("/settings", auth.RequireAdmin())
	settings.Get("", cfg.Admin.ListSettings)
	settings.Get("/:key", cfg.Admin.GetSetting)
	settings.Put("/:key", cfg.Admin.PutSetting)

	protected.Get("/audit", auth.RequireAdmin(), cfg.Audit.ListEntries)
}
