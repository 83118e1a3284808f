package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taplink-service/internal/apperr"
	"taplink-service/pkg/logger"
)

// ClientLog ingests log entries from browser clients and replays them
// into the server log at the matching level, so tap-flow failures on the
// public pages show up next to backend logs.
func ClientLog(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Level     string `json:"level"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
		SourceURL string `json:"sourceUrl"`
	}

	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "invalid request").JSON(c)
	}

	if req.Message == "" {
		req.Message = "no message provided"
	}

	fields := []zap.Field{
		zap.String("client_timestamp", req.Timestamp),
		zap.String("source_url", req.SourceURL),
		zap.String("user_agent", c.Request().UserAgent()),
	}

	switch strings.ToUpper(req.Level) {
	case "ERROR":
		log.Error("CLIENT_LOG: "+req.Message, fields...)
	case "WARN", "WARNING":
		log.Warn("CLIENT_LOG: "+req.Message, fields...)
	default:
		log.Info("CLIENT_LOG: "+req.Message, fields...)
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}
