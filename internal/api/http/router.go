package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-service/internal/api/http/handlers"
	"github.com/spec-kit/field-service/internal/auth"
	"github.com/spec-kit/field-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	WorkOrders     *handlers.WorkOrdersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/staff", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.StaffRoleAdmin), cfg.Auth.CreateStaff)

	backOffice := auth.RequireRole(domain.StaffRoleCRM, domain.StaffRoleAdmin)
	technician := auth.RequireRole(domain.StaffRoleTechnician)
	anyStaff := auth.RequireRole()

	workOrders := app.Group("/work-orders", cfg.AuthMiddleware.Handle)
	workOrders.Post("/", backOffice, cfg.WorkOrders.Create)
	workOrders.Get("/", anyStaff, cfg.WorkOrders.List)
	workOrders.Get("/:id", anyStaff, cfg.WorkOrders.Get)
	workOrders.Get("/:id/audit", anyStaff, cfg.WorkOrders.ListAudit)
	workOrders.Post("/:id/feedback", anyStaff, cfg.WorkOrders.SubmitFeedback)
	workOrders.Get("/:id/feedback", anyStaff, cfg.WorkOrders.GetFeedback)

	workOrders.Post("/:id/assign", backOffice, cfg.WorkOrders.Assign)
	workOrders.Post("/:id/schedule", anyStaff, cfg.WorkOrders.Schedule)

	workOrders.Post("/:id/accept", technician, cfg.WorkOrders.Accept)
	workOrders.Post("/:id/reject-assignment", technician, cfg.WorkOrders.RejectAssignment)
	workOrders.Post("/:id/start", technician, cfg.WorkOrders.StartService)
	workOrders.Post("/:id/complete", technician, cfg.WorkOrders.Complete)
	workOrders.Post("/:id/part-in-demand", technician, cfg.WorkOrders.MarkPartInDemand)
	workOrders.Post("/:id/complete-from-part-demand", technician, cfg.WorkOrders.CompleteFromPartDemand)

	workOrders.Post("/:id/approve", backOffice, cfg.WorkOrders.Approve)
	workOrders.Post("/:id/close", backOffice, cfg.WorkOrders.Close)
	workOrders.Post("/:id/reject-completion", backOffice, cfg.WorkOrders.RejectCompletion)
	workOrders.Post("/:id/cancel", anyStaff, cfg.WorkOrders.Cancel)
}
