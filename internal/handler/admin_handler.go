package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"taplink-service/internal/apperr"
	"taplink-service/internal/auth"
	"taplink-service/internal/middleware"
	"taplink-service/internal/model"
	"taplink-service/internal/store"
	"taplink-service/pkg/logger"
	"taplink-service/prometheus"
)

// defaultAdminRolID is the role an administratively created user gets
// when the request does not name one.
const defaultAdminRolID = 2

// AdminHandler serves user management within the caller's empresa. Every
// operation requires a privileged role, checked only after the empresa
// has been resolved from the session.
type AdminHandler struct {
	store store.Store
}

func NewAdminHandler(s store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

// requirePrivileged resolves the session claims and enforces the role
// gate. Tenant validity is always established before the role check.
func (h *AdminHandler) requirePrivileged(c echo.Context) (*auth.Claims, *apperr.Error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, apperr.New(apperr.SessionInvalid, "missing session token, please sign in")
	}
	if !claims.Role.Privileged() {
		prometheus.RecordAuthError("permission_denied")
		return nil, apperr.New(apperr.PermissionDenied, "permission denied")
	}
	return claims, nil
}

// ListUsers returns all users of the caller's empresa.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("list")

	claims, appErr := h.requirePrivileged(c)
	if appErr != nil {
		return appErr.JSON(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := h.store.ListUsers(claims.EmpresaID)
	if err != nil {
		log.Error("Failed to list users", zap.Int64("empresa_id", claims.EmpresaID), zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while listing users").JSON(c)
	}

	output := make([]echo.Map, 0, len(users))
	for _, user := range users {
		output = append(output, echo.Map{
			"id":      user.ID,
			"nombre":  user.Nombre,
			"email":   user.Email,
			"rol":     user.Rol.Nombre,
			"empresa": user.Empresa.Nombre,
		})
	}

	log.Info("Listed users", zap.Int64("empresa_id", claims.EmpresaID), zap.Int("count", len(users)))
	return c.JSON(http.StatusOK, output)
}

// CreateUser creates a user inside the caller's own empresa. A request
// naming a different empresa id is rejected outright, never silently
// redirected; the persisted empresa id is always the caller's validated
// one.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("create")

	claims, appErr := h.requirePrivileged(c)
	if appErr != nil {
		return appErr.JSON(c)
	}

	var req struct {
		Nombre    string `json:"nombre"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		RolID     uint   `json:"rol_id"`
		EmpresaID *int64 `json:"empresa_id"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse admin user creation request", zap.Error(err))
		return apperr.New(apperr.Validation, "invalid request").JSON(c)
	}

	if req.Nombre == "" || req.Email == "" || req.Password == "" {
		return apperr.New(apperr.Validation, "missing required fields").JSON(c)
	}

	if req.EmpresaID != nil && *req.EmpresaID != claims.EmpresaID {
		log.Warn("Cross-empresa user creation attempt",
			zap.Int64("caller_empresa_id", claims.EmpresaID),
			zap.Int64("requested_empresa_id", *req.EmpresaID))
		prometheus.RecordAuthError("cross_tenant_write")
		return apperr.New(apperr.PermissionDenied, "cannot create users in another empresa").JSON(c)
	}

	rolID := req.RolID
	if rolID == 0 {
		rolID = defaultAdminRolID
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.store.FindUserByEmail(req.Email); err == nil {
		log.Warn("Admin registration for existing email", zap.String("email", req.Email))
		return apperr.New(apperr.Conflict, "user already exists").JSON(c)
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("User lookup failed", zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while creating the user").JSON(c)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while creating the user").JSON(c)
	}

	user := model.User{
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		RolID:        rolID,
		EmpresaID:    uint(claims.EmpresaID),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateUser(&user); err != nil {
		log.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while creating the user").JSON(c)
	}

	log.Info("User created by admin",
		zap.String("email", user.Email),
		zap.Int64("empresa_id", claims.EmpresaID),
		zap.Uint("rol_id", rolID))
	return c.JSON(http.StatusCreated, echo.Map{"message": "user created successfully"})
}

// DeleteUser removes a user of the caller's empresa. Users of other
// empresas look exactly like missing users.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAdminOperation("delete")

	claims, appErr := h.requirePrivileged(c)
	if appErr != nil {
		return appErr.JSON(c)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.New(apperr.Validation, "invalid user id").JSON(c)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.store.DeleteUser(id, claims.EmpresaID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("User delete on missing or foreign user",
				zap.Int64("id", id),
				zap.Int64("empresa_id", claims.EmpresaID))
			return apperr.New(apperr.NotFound, "user not found").JSON(c)
		}
		log.Error("Failed to delete user", zap.Int64("id", id), zap.Error(err))
		return apperr.New(apperr.Internal, "internal error while deleting the user").JSON(c)
	}

	log.Info("User deleted", zap.Int64("id", id), zap.Int64("empresa_id", claims.EmpresaID))
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted successfully"})
}
