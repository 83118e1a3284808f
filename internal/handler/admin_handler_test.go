package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"taplink-service/internal/auth"
	"taplink-service/internal/handler"
	"taplink-service/internal/model"
)

func adminFixture() *mockStore {
	return &mockStore{
		users: []model.User{
			{ID: 1, Nombre: "Ana", Email: "ana@acme.test", RolID: 1, EmpresaID: 7,
				Rol: model.Role{ID: 1, Nombre: "super_admin"}, Empresa: model.Empresa{ID: 7, Nombre: "Acme"}},
			{ID: 2, Nombre: "Luis", Email: "luis@acme.test", RolID: 2, EmpresaID: 7,
				Rol: model.Role{ID: 2, Nombre: "admin"}, Empresa: model.Empresa{ID: 7, Nombre: "Acme"}},
			{ID: 3, Nombre: "Eve", Email: "eve@other.test", RolID: 2, EmpresaID: 9,
				Rol: model.Role{ID: 2, Nombre: "admin"}, Empresa: model.Empresa{ID: 9, Nombre: "Other"}},
		},
		nextID: 10,
	}
}

func superAdminClaims(empresaID int64) *auth.Claims {
	return &auth.Claims{UserID: "1", Email: "ana@acme.test", EmpresaID: empresaID, Role: auth.RoleSuperAdmin, RawRole: "super_admin"}
}

func TestAdminListUsersScopedToTenant(t *testing.T) {
	h := handler.NewAdminHandler(adminFixture())

	c, rec := newTestContext(t, http.MethodGet, "/api/admin/users", "", superAdminClaims(7))
	require.NoError(t, h.ListUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	for _, u := range out {
		require.Equal(t, "Acme", u["empresa"])
	}
}

func TestAdminListUsersDeniedForUnprivileged(t *testing.T) {
	h := handler.NewAdminHandler(adminFixture())

	c, rec := newTestContext(t, http.MethodGet, "/api/admin/users", "", tenantClaims(7))
	require.NoError(t, h.ListUsers(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

// A create naming another empresa is rejected, not silently redirected to
// the caller's own empresa.
func TestAdminCreateUserCrossTenantRejected(t *testing.T) {
	st := adminFixture()
	h := handler.NewAdminHandler(st)

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/register",
		`{"nombre":"Mallory","email":"mallory@other.test","password":"secret","empresa_id":9}`, superAdminClaims(7))
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Len(t, st.users, 3)
}

func TestAdminCreateUserSameTenant(t *testing.T) {
	st := adminFixture()
	h := handler.NewAdminHandler(st)

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/register",
		`{"nombre":"Bea","email":"bea@acme.test","password":"secret","empresa_id":7}`, superAdminClaims(7))
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	created := st.users[len(st.users)-1]
	require.Equal(t, "bea@acme.test", created.Email)
	require.Equal(t, uint(7), created.EmpresaID)
}

// Omitting empresa_id defaults to the caller's empresa, and rol_id
// defaults to the admin role.
func TestAdminCreateUserOmittedTenantDefaults(t *testing.T) {
	st := adminFixture()
	h := handler.NewAdminHandler(st)

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/register",
		`{"nombre":"Bea","email":"bea@acme.test","password":"secret"}`, superAdminClaims(7))
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	created := st.users[len(st.users)-1]
	require.Equal(t, uint(7), created.EmpresaID)
	require.Equal(t, uint(2), created.RolID)
}

func TestAdminCreateUserDeniedForUnprivileged(t *testing.T) {
	st := adminFixture()
	h := handler.NewAdminHandler(st)

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/register",
		`{"nombre":"Bea","email":"bea@acme.test","password":"secret"}`, tenantClaims(7))
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Len(t, st.users, 3)
}

func TestAdminDeleteUserOwnTenant(t *testing.T) {
	st := adminFixture()
	h := handler.NewAdminHandler(st)

	c, rec := newTestContext(t, http.MethodDelete, "/api/admin/users/2", "", superAdminClaims(7))
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, h.DeleteUser(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, st.users, 2)
}

// Deleting a user of another empresa reads as absence.
func TestAdminDeleteUserForeignTenantIsNotFound(t *testing.T) {
	st := adminFixture()
	h := handler.NewAdminHandler(st)

	c, rec := newTestContext(t, http.MethodDelete, "/api/admin/users/3", "", superAdminClaims(7))
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, h.DeleteUser(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, st.users, 3)
}
