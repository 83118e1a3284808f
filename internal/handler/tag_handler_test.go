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

func tagFixture() *mockStore {
	return &mockStore{
		tags: []model.NfcTag{
			{ID: 1, TagID: "X1", Data: "door", PublicURL: "https://acme.test/door", EmpresaID: 7},
			{ID: 2, TagID: "X2", Data: "desk", PublicURL: "https://other.test/desk", EmpresaID: 9},
		},
		nextID: 10,
	}
}

func tenantClaims(empresaID int64) *auth.Claims {
	return &auth.Claims{UserID: "1", Email: "ana@acme.test", EmpresaID: empresaID, Role: auth.RoleAdmin, RawRole: "admin"}
}

// Listing only ever returns the caller's own tags, whatever else exists.
func TestTagListScopedToTenant(t *testing.T) {
	h := handler.NewTagHandler(tagFixture())

	c, rec := newTestContext(t, http.MethodGet, "/api/nfc-tags", "", tenantClaims(7))
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "X1", out[0]["tag_id"])
}

func TestTagCreateUsesSessionTenant(t *testing.T) {
	st := tagFixture()
	h := handler.NewTagHandler(st)

	// empresa_id in the body is not part of the contract and is ignored.
	c, rec := newTestContext(t, http.MethodPost, "/api/nfc-tags",
		`{"tagId":"X3","tagName":"window","publicUrl":"https://acme.test/window","empresa_id":9}`, tenantClaims(7))
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	created := st.tags[len(st.tags)-1]
	require.Equal(t, "X3", created.TagID)
	require.Equal(t, uint(7), created.EmpresaID)
}

func TestTagCreateValidation(t *testing.T) {
	st := tagFixture()
	h := handler.NewTagHandler(st)

	c, rec := newTestContext(t, http.MethodPost, "/api/nfc-tags",
		`{"tagId":"X3"}`, tenantClaims(7))
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, st.tags, 2)
}

func TestTagDeleteOwnTag(t *testing.T) {
	st := tagFixture()
	h := handler.NewTagHandler(st)

	c, rec := newTestContext(t, http.MethodDelete, "/api/nfc-tags/1", "", tenantClaims(7))
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, st.tags, 1)
}

// Deleting a tag that belongs to another empresa is a 404, not a success
// and not a 403: absence and foreign ownership must look identical.
func TestTagDeleteForeignTagIsNotFound(t *testing.T) {
	st := tagFixture()
	h := handler.NewTagHandler(st)

	c, rec := newTestContext(t, http.MethodDelete, "/api/nfc-tags/2", "", tenantClaims(7))
	c.SetParamNames("id")
	c.SetParamValues("2")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, st.tags, 2)
}

func TestTagDeleteBadID(t *testing.T) {
	h := handler.NewTagHandler(tagFixture())

	c, rec := newTestContext(t, http.MethodDelete, "/api/nfc-tags/abc", "", tenantClaims(7))
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
