package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"taplink-service/internal/auth"
	"taplink-service/internal/middleware"
	"taplink-service/internal/model"
	"taplink-service/internal/store"
)

// mockStore is an in-memory Store used by the handler tests. It applies
// the same empresa filtering the GORM store does, so cross-tenant
// behaviour can be asserted without a database.
type mockStore struct {
	users    []model.User
	tags     []model.NfcTag
	taps     []model.NfcTap
	empresas []model.Empresa

	nextID uint
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) FindUserByEmail(email string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) CreateUser(user *model.User) error {
	m.nextID++
	user.ID = m.nextID
	m.users = append(m.users, *user)
	return nil
}

func (m *mockStore) ListUsers(empresaID int64) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		if int64(u.EmpresaID) == empresaID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockStore) DeleteUser(id int64, empresaID int64) error {
	for i, u := range m.users {
		if int64(u.ID) == id && int64(u.EmpresaID) == empresaID {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockStore) ListTags(empresaID int64) ([]model.NfcTag, error) {
	var out []model.NfcTag
	for _, tag := range m.tags {
		if int64(tag.EmpresaID) == empresaID {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (m *mockStore) CreateTag(tag *model.NfcTag) error {
	m.nextID++
	tag.ID = m.nextID
	m.tags = append(m.tags, *tag)
	return nil
}

func (m *mockStore) DeleteTag(id int64, empresaID int64) error {
	for i, tag := range m.tags {
		if int64(tag.ID) == id && int64(tag.EmpresaID) == empresaID {
			m.tags = append(m.tags[:i], m.tags[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockStore) FindTagByTagID(tagID string) (*model.NfcTag, error) {
	for i := range m.tags {
		if m.tags[i].TagID == tagID {
			return &m.tags[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) CreateTap(tap *model.NfcTap) error {
	m.nextID++
	tap.ID = m.nextID
	tap.Timestamp = time.Now()
	m.taps = append(m.taps, *tap)
	return nil
}

func (m *mockStore) ListTaps(empresaID int64) ([]model.NfcTap, error) {
	var out []model.NfcTap
	for _, tap := range m.taps {
		if int64(tap.EmpresaID) == empresaID {
			out = append(out, tap)
		}
	}
	return out, nil
}

func (m *mockStore) GetEmpresa(id int64) (*model.Empresa, error) {
	for i := range m.empresas {
		if int64(m.empresas[i].ID) == id {
			return &m.empresas[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// newTestContext builds an echo context carrying an optional JSON body
// and, when claims are given, a resolved session the way the auth
// middleware would have left it.
func newTestContext(t *testing.T, method, path, body string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		middleware.SetClaims(c, claims)
	}
	return c, rec
}
