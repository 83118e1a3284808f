package handler

import (
	"errors"
	"net/http"
	"strconv"
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

// TagHandler serves NFC tag CRUD, always scoped to the caller's empresa.
type TagHandler struct {
	store store.Store
}

func NewTagHandler(s store.Store) *TagHandler {
	return &TagHandler{store: s}
}

// List returns the tags owned by the caller's empresa.
func (h *TagHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTagOperation("list")

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return apperr.New(apperr.SessionInvalid, "missing session token, please sign in").JSON(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tags, err := h.store.ListTags(claims.EmpresaID)
	if err != nil {
		log.Error("Failed to list tags", zap.Int64("empresa_id", claims.EmpresaID), zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while listing tags").JSON(c)
	}

	output := make([]echo.Map, 0, len(tags))
	for _, tag := range tags {
		output = append(output, echo.Map{
			"id":         tag.ID,
			"tag_id":     tag.TagID,
			"data":       tag.Data,
			"public_url": tag.PublicURL,
		})
	}

	log.Info("Listed tags", zap.Int64("empresa_id", claims.EmpresaID), zap.Int("count", len(tags)))
	return c.JSON(http.StatusOK, output)
}

// Create adds a tag under the caller's empresa. The empresa id comes from
// the session claims only.
func (h *TagHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTagOperation("create")

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return apperr.New(apperr.SessionInvalid, "missing session token, please sign in").JSON(c)
	}

	var req struct {
		TagID     string `json:"tagId"`
		TagName   string `json:"tagName"`
		PublicURL string `json:"publicUrl"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse tag creation request", zap.Error(err))
		return apperr.New(apperr.Validation, "invalid request").JSON(c)
	}

	if req.TagID == "" || req.TagName == "" || req.PublicURL == "" {
		return apperr.New(apperr.Validation, "tagId, tagName and publicUrl are required").JSON(c)
	}

	tag := model.NfcTag{
		TagID:     req.TagID,
		Data:      req.TagName,
		PublicURL: req.PublicURL,
		EmpresaID: uint(claims.EmpresaID),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateTag(&tag); err != nil {
		log.Error("Failed to create tag",
			zap.String("tag_id", req.TagID),
			zap.Int64("empresa_id", claims.EmpresaID),
			zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while creating the tag").JSON(c)
	}

	log.Info("Tag created", zap.String("tag_id", tag.TagID), zap.Int64("empresa_id", claims.EmpresaID))
	return c.JSON(http.StatusCreated, echo.Map{"message": "tag created successfully"})
}

// Delete removes a tag by row id. A tag owned by another empresa is
// reported as not found, never as forbidden.
func (h *TagHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTagOperation("delete")

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return apperr.New(apperr.SessionInvalid, "missing session token, please sign in").JSON(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.New(apperr.Validation, "invalid tag id").JSON(c)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.store.DeleteTag(id, claims.EmpresaID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("Tag delete on missing or foreign tag",
				zap.Int64("id", id),
				zap.Int64("empresa_id", claims.EmpresaID))
			return apperr.New(apperr.NotFound, "tag not found").JSON(c)
		}
		log.Error("Failed to delete tag", zap.Int64("id", id), zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while deleting the tag").JSON(c)
	}

	log.Info("Tag deleted", zap.Int64("id", id), zap.Int64("empresa_id", claims.EmpresaID))
	return c.JSON(http.StatusOK, echo.Map{"message": "tag deleted successfully"})
}
