package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taplink-service/internal/apperr"
	"taplink-service/internal/auth"
	"taplink-service/pkg/jwtutil"
	"taplink-service/pkg/logger"
	"taplink-service/prometheus"
)

const claimsContextKey = "session_claims"

// ClaimsFrom returns the resolved session claims stored by Auth. Handlers
// behind the middleware can rely on the value being present and typed.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// SetClaims stores resolved claims in the request context. Exposed for
// handler tests that bypass the middleware.
func SetClaims(c echo.Context, claims *auth.Claims) {
	c.Set(claimsContextKey, claims)
}

// Auth validates the bearer token on every protected request and resolves
// it into typed claims before any handler runs. Any resolution failure is
// returned to the caller verbatim and the handler is never invoked.
func Auth(jwtSvc *jwtutil.JWT) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return apperr.New(apperr.SessionInvalid, "missing session token, please sign in").JSON(c)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return apperr.New(apperr.SessionInvalid, "invalid session token, please sign in again").JSON(c)
			}

			claims, appErr := resolveToken(jwtSvc, parts[1], log)
			if appErr != nil {
				return appErr.JSON(c)
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}

// resolveToken runs signature verification and claims resolution. An
// unexpected panic anywhere in the pipeline is logged with the failing
// token shape and mapped to a generic 500, never propagated raw.
func resolveToken(jwtSvc *jwtutil.JWT, token string, log *zap.Logger) (claims *auth.Claims, appErr *apperr.Error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic during session resolution", zap.Any("panic", r))
			prometheus.RecordAuthError("resolution_panic")
			claims = nil
			appErr = apperr.New(apperr.Internal, "internal error while processing the session token")
		}
	}()

	raw, err := jwtSvc.Verify(token)
	if err != nil {
		log.Warn("Token verification failed", zap.Error(err))
		prometheus.RecordAuthError("invalid_token")
		return nil, apperr.New(apperr.SessionInvalid, "invalid or expired session, please sign in again")
	}

	claims, appErr = auth.Resolve(raw)
	if appErr != nil {
		log.Warn("Claims resolution failed",
			zap.String("reason", appErr.Message),
			zap.String("claims_shape", claimsShape(raw)))
		prometheus.RecordAuthError("invalid_claims")
		return nil, appErr
	}

	return claims, nil
}

func claimsShape(raw jwt.Claims) string {
	if mapped, ok := raw.(jwt.MapClaims); ok {
		keys := make([]string, 0, len(mapped))
		for k := range mapped {
			keys = append(keys, k)
		}
		return "map:" + strings.Join(keys, ",")
	}
	return "non-map"
}
