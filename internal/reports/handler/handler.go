// Package handler exposes the reporting API over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayportal_backend/internal/reports/service"
	"stayportal_backend/internal/reports/transport"
	"stayportal_backend/platform/httpkit"
	"stayportal_backend/platform/validator"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/metrics", h.Metrics)
	rg.GET("/funnel", h.Funnel)
	rg.GET("/operators", h.Operators)
	rg.GET("/properties", h.Properties)
	rg.GET("/trend", h.Trend)
	rg.GET("/lost-reasons", h.LostReasons)
}

func (h *Handler) bindQuery(c *gin.Context) (transport.ReportQuery, bool) {
	var query transport.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return query, false
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return query, false
	}
	return query, true
}

func (h *Handler) Dashboard(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Metrics(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Metrics(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Funnel(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Funnel(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Operators(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.OperatorPerformance(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": resp})
}

func (h *Handler) Properties(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.PropertyPerformance(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": resp})
}

func (h *Handler) Trend(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.Trend(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": resp})
}

func (h *Handler) LostReasons(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}
	resp, err := h.svc.LostReasons(c.Request.Context(), query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": resp})
}
