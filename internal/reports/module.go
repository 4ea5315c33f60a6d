// Package reports provides the reporting bounded context module.
package reports

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "stayportal_backend/internal/http"
	"stayportal_backend/internal/reports/handler"
	"stayportal_backend/internal/reports/repository"
	"stayportal_backend/internal/reports/service"
	"stayportal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "reports"
}

// RegisterRoutes mounts the reporting endpoints. All reports require
// authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/reports"))
}

var _ apphttp.Module = (*Module)(nil)
