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
	"taplink-service/internal/model"
	"taplink-service/internal/store"
	"taplink-service/pkg/jwtutil"
	"taplink-service/pkg/logger"
	"taplink-service/prometheus"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	store store.Store
	jwt   *jwtutil.JWT
}

func NewAuthHandler(s store.Store, jwtSvc *jwtutil.JWT) *AuthHandler {
	return &AuthHandler{store: s, jwt: jwtSvc}
}

// Login verifies credentials and mints a session token. An unknown email
// and a wrong password produce the exact same failure, so callers cannot
// enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return apperr.New(apperr.Validation, "invalid request").JSON(c)
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return apperr.New(apperr.Validation, "email and password are required").JSON(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.store.FindUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("User lookup failed", zap.Error(err))
			return apperr.New(apperr.Internal, "internal error during login").JSON(c)
		}
		log.Warn("Login attempt for unknown email", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return apperr.New(apperr.Authentication, "invalid credentials").JSON(c)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Login attempt with wrong password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_credentials")
		return apperr.New(apperr.Authentication, "invalid credentials").JSON(c)
	}

	// The empresa id is coerced to an integer here, at mint time, never
	// left for the resolver to guess at.
	token, err := h.jwt.Mint(
		strconv.FormatUint(uint64(user.ID), 10),
		user.Email,
		user.Rol.Nombre,
		int64(user.EmpresaID),
	)
	if err != nil {
		log.Error("Failed to mint session token", zap.Error(err))
		prometheus.RecordAuthError("token_mint_failed")
		return apperr.New(apperr.Internal, "internal error during login").JSON(c)
	}

	prometheus.IncreaseActiveSessions()
	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("empresa_id", user.EmpresaID),
		zap.String("rol", user.Rol.Nombre))

	return c.JSON(http.StatusOK, echo.Map{"access_token": token})
}

// Register creates a user account.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Nombre    string `json:"nombre"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		RolID     uint   `json:"rol_id"`
		EmpresaID uint   `json:"empresa_id"`
	}

	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return apperr.New(apperr.Validation, "invalid request").JSON(c)
	}

	if req.Nombre == "" || req.Email == "" || req.Password == "" || req.RolID == 0 || req.EmpresaID == 0 {
		prometheus.RecordAuthError("incomplete_registration")
		return apperr.New(apperr.Validation, "missing required fields").JSON(c)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	if _, err := h.store.FindUserByEmail(req.Email); err == nil {
		log.Warn("Registration for existing email", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return apperr.New(apperr.Conflict, "user already exists").JSON(c)
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("User lookup failed", zap.Error(err))
		return apperr.New(apperr.Internal, "internal error during registration").JSON(c)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return apperr.New(apperr.Internal, "registration failed").JSON(c)
	}

	user := model.User{
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		RolID:        req.RolID,
		EmpresaID:    req.EmpresaID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.store.CreateUser(&user); err != nil {
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return apperr.New(apperr.Internal, "registration failed").JSON(c)
	}

	log.Info("User registered", zap.String("email", user.Email), zap.Uint("empresa_id", user.EmpresaID))
	return c.JSON(http.StatusCreated, echo.Map{"message": "user created successfully"})
}
