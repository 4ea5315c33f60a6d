package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"stayportal_backend/platform/apperr"
)

func TestHandleErrorMapsDomainKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"nil error", nil, http.StatusOK},
		{"not found", apperr.NotFound("lead not found"), http.StatusNotFound},
		{"validation", apperr.Validation("bad input"), http.StatusBadRequest},
		{"internal", apperr.Internal("store unavailable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			handled := HandleError(c, tt.err)
			if tt.err == nil {
				if handled {
					t.Fatal("HandleError(nil) = true, want false")
				}
				return
			}
			if !handled {
				t.Fatal("HandleError() = false, want true")
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleErrorUntypedIsInfrastructure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	driverErr := errors.New("pq: connection refused")
	if !HandleError(c, driverErr) {
		t.Fatal("HandleError() = false, want true")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if body := rec.Body.String(); strings.Contains(body, "connection refused") {
		t.Errorf("body = %q, must not leak the underlying error", body)
	}
}

func TestHandleErrorUnwrapsNestedDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	wrapped := apperr.Wrap(apperr.KindNotFound, "lead not found", errors.New("no rows"))
	HandleError(c, wrapped)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
