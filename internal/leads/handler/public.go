package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stayportal_backend/internal/leads/intake"
	"stayportal_backend/internal/leads/transport"
	"stayportal_backend/platform/httpkit"
	"stayportal_backend/platform/validator"
)

// PublicHandler serves the unauthenticated intake endpoint guests hit from
// accommodation pages.
type PublicHandler struct {
	intake *intake.Service
	val    *validator.Validator
}

func NewPublicHandler(svc *intake.Service, val *validator.Validator) *PublicHandler {
	return &PublicHandler{intake: svc, val: val}
}

func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/accommodations/:id/call-request", h.CreateCallRequest)
}

func (h *PublicHandler) CreateCallRequest(c *gin.Context) {
	accommodationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.CreateCallRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	meta := intake.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if req.SourceURL == "" {
		req.SourceURL = c.Request.Referer()
	}

	lead, err := h.intake.Create(c.Request.Context(), accommodationID, req, meta)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}
