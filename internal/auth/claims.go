package auth

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/golang-jwt/jwt/v4"

	"taplink-service/internal/apperr"
)

// Claims is the trusted per-request identity produced by Resolve. It is
// the only way claims enter the rest of the service: no handler reads the
// raw token payload directly, and EmpresaID is always a real integer by
// the time a Claims value exists.
type Claims struct {
	UserID    string
	Email     string
	EmpresaID int64
	Role      Role
	// RawRole keeps the original claim string for logs and responses.
	RawRole string
}

// Resolve validates the decoded payload of an already signature-checked
// token and yields the typed claims. Each failure mode is distinct
// internally but all surface as a 401 SessionInvalid; token-level failures
// (missing, bad signature, expired) are rejected before Resolve is called.
func Resolve(raw jwt.Claims) (*Claims, *apperr.Error) {
	mapped, ok := raw.(jwt.MapClaims)
	if !ok || mapped == nil {
		return nil, apperr.New(apperr.SessionInvalid, "invalid session format")
	}

	empresaRaw, present := mapped["empresa_id"]
	if !present || empresaRaw == nil {
		return nil, apperr.New(apperr.SessionInvalid, "missing tenant in session")
	}

	empresaID, ok := coerceEmpresaID(empresaRaw)
	if !ok {
		return nil, apperr.New(apperr.SessionInvalid, "corrupt tenant id in session")
	}

	claims := &Claims{EmpresaID: empresaID}
	if sub, ok := mapped["sub"].(string); ok {
		claims.UserID = sub
	}
	if email, ok := mapped["email"].(string); ok {
		claims.Email = email
	}
	// Role absence means no elevated role, not an invalid session.
	if rol, ok := mapped["rol"].(string); ok {
		claims.RawRole = rol
		claims.Role = ParseRole(rol)
	}
	return claims, nil
}

// coerceEmpresaID normalizes the empresa_id claim to int64. encoding/json
// decodes JWT numbers as float64; tokens minted elsewhere may carry a
// json.Number or a numeric string. Anything else is a corrupt session.
func coerceEmpresaID(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
