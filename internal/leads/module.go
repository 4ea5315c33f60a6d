// Package leads provides the call request bounded context module.
package leads

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"stayportal_backend/internal/accommodations"
	"stayportal_backend/internal/directory"
	"stayportal_backend/internal/events"
	apphttp "stayportal_backend/internal/http"
	"stayportal_backend/internal/leads/handler"
	"stayportal_backend/internal/leads/intake"
	"stayportal_backend/internal/leads/management"
	"stayportal_backend/internal/leads/repository"
	"stayportal_backend/internal/leads/scheduling"
	"stayportal_backend/platform/validator"
)

// Module is the call request bounded context implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	management    *management.Service
	scheduling    *scheduling.Service
}

// NewModule wires the call request services, repositories and handlers.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	operators := directory.New(pool)
	listings := accommodations.New(pool)

	intakeSvc := intake.New(repo, listings, operators, eventBus)
	mgmtSvc := management.New(repo, operators, eventBus)
	schedulingSvc := scheduling.New(repo)

	return &Module{
		handler:       handler.New(mgmtSvc, schedulingSvc, val),
		publicHandler: handler.NewPublicHandler(intakeSvc, val),
		management:    mgmtSvc,
		scheduling:    schedulingSvc,
	}
}

func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RegisterRoutes mounts the public intake endpoint and the authenticated
// call request API.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("")
	if ctx.IntakeRateLimit != nil {
		public.Use(ctx.IntakeRateLimit)
	}
	m.publicHandler.RegisterRoutes(public)

	m.handler.RegisterRoutes(ctx.Protected.Group("/call-requests"))
}

var _ apphttp.Module = (*Module)(nil)
