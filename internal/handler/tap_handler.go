package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taplink-service/internal/apperr"
	"taplink-service/internal/middleware"
	"taplink-service/internal/model"
	"taplink-service/internal/store"
	"taplink-service/pkg/logger"
	"taplink-service/prometheus"
)

// TapHandler serves tap listing for authenticated callers and the two
// public endpoints a physical tag tap hits without a session.
type TapHandler struct {
	store store.Store
}

func NewTapHandler(s store.Store) *TapHandler {
	return &TapHandler{store: s}
}

// List returns the tap events recorded for the caller's empresa.
func (h *TapHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return apperr.New(apperr.SessionInvalid, "missing session token, please sign in").JSON(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	taps, err := h.store.ListTaps(claims.EmpresaID)
	if err != nil {
		log.Error("Failed to list taps", zap.Int64("empresa_id", claims.EmpresaID), zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while listing taps").JSON(c)
	}

	output := make([]echo.Map, 0, len(taps))
	for _, tap := range taps {
		output = append(output, echo.Map{
			"id":            tap.ID,
			"tag_id":        tap.TagID,
			"timestamp":     tap.Timestamp.Format(time.RFC3339),
			"ip_address":    tap.IPAddress,
			"user_agent":    tap.UserAgent,
			"location_data": tap.LocationData,
			"empresa_id":    tap.EmpresaID,
		})
	}

	log.Info("Listed taps", zap.Int64("empresa_id", claims.EmpresaID), zap.Int("count", len(taps)))
	return c.JSON(http.StatusOK, output)
}

// PublicTagInfo resolves a physical tag id to its redirect URL. No
// session and no tenant filter: the tag id is globally unique and is the
// sole key.
func (h *TapHandler) PublicTagInfo(c echo.Context) error {
	log := logger.FromContext(c)
	tagID := c.Param("tag_id")

	defer prometheus.TrackDBOperation("query")(time.Now())
	tag, err := h.store.FindTagByTagID(tagID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("Public lookup for unknown tag", zap.String("tag_id", tagID))
			return apperr.New(apperr.NotFound, "tag not found").JSON(c)
		}
		log.Error("Public tag lookup failed", zap.String("tag_id", tagID), zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while looking up the tag").JSON(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tag_id":     tag.TagID,
		"public_url": tag.PublicURL,
		"empresa_id": tag.EmpresaID,
	})
}

// RegisterTap records an anonymous tap event. The owning empresa is
// derived from the tag row; nothing in the request body can attribute the
// tap to a different empresa, and an unknown tag id writes nothing.
func (h *TapHandler) RegisterTap(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		TagID        string `json:"tagId"`
		LocationData string `json:"locationData"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse tap event request", zap.Error(err))
		prometheus.RecordTapEvent("error")
		return apperr.New(apperr.Validation, "invalid request").JSON(c)
	}

	if req.TagID == "" {
		prometheus.RecordTapEvent("error")
		return apperr.New(apperr.Validation, "tag id is required").JSON(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tag, err := h.store.FindTagByTagID(req.TagID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("Tap event for unknown tag", zap.String("tag_id", req.TagID))
			prometheus.RecordTapEvent("unknown_tag")
			return apperr.New(apperr.NotFound, "tag not found").JSON(c)
		}
		log.Error("Tag lookup for tap event failed", zap.String("tag_id", req.TagID), zap.Error(err))
		prometheus.RecordTapEvent("error")
		return apperr.New(apperr.Internal, "internal error while registering the tap").JSON(c)
	}

	tap := model.NfcTap{
		TagID:        req.TagID,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		LocationData: req.LocationData,
		EmpresaID:    tag.EmpresaID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateTap(&tap); err != nil {
		log.Error("Failed to record tap",
			zap.String("tag_id", req.TagID),
			zap.Uint("empresa_id", tag.EmpresaID),
			zap.Error(err))
		prometheus.RecordTapEvent("error")
		return apperr.New(apperr.Internal, "internal error while registering the tap").JSON(c)
	}

	prometheus.RecordTapEvent("recorded")
	log.Info("Tap recorded",
		zap.String("tag_id", req.TagID),
		zap.Uint("empresa_id", tag.EmpresaID))
	return c.JSON(http.StatusCreated, echo.Map{"message": "tap recorded successfully"})
}
