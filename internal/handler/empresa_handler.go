package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taplink-service/internal/apperr"
	"taplink-service/internal/middleware"
	"taplink-service/internal/store"
	"taplink-service/pkg/logger"
	"taplink-service/prometheus"
)

// EmpresaHandler serves empresa metadata for the authenticated caller.
type EmpresaHandler struct {
	store store.Store
}

func NewEmpresaHandler(s store.Store) *EmpresaHandler {
	return &EmpresaHandler{store: s}
}

// Get returns the name of the caller's own empresa.
func (h *EmpresaHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return apperr.New(apperr.SessionInvalid, "missing session token, please sign in").JSON(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	empresa, err := h.store.GetEmpresa(claims.EmpresaID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("Empresa not found for session", zap.Int64("empresa_id", claims.EmpresaID))
			return apperr.New(apperr.NotFound, "empresa not found").JSON(c)
		}
		log.Error("Empresa lookup failed", zap.Int64("empresa_id", claims.EmpresaID), zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while looking up the empresa").JSON(c)
	}

	return c.JSON(http.StatusOK, echo.Map{"nombre": empresa.Nombre})
}
