package country_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/country"
	countryUC "newsfeed-hub/internal/usecase/country"
	"newsfeed-hub/internal/usecase/notify"
)

const secret = "test-secret"

/* ───────── スタブ ───────── */

type memRepo struct {
	data     map[int64]*entity.Country
	next     int64
	byAuthor int
}

func newRepo(seed ...*entity.Country) *memRepo {
	m := &memRepo{data: map[int64]*entity.Country{}, next: 1}
	for _, c := range seed {
		m.data[c.ID] = c
		if c.ID >= m.next {
			m.next = c.ID + 1
		}
	}
	return m
}

func (m *memRepo) Get(_ context.Context, id int64) (*entity.Country, error) {
	c, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) FindByShort(context.Context, string) (*entity.Country, error) { return nil, nil }

func (m *memRepo) sorted(keep func(*entity.Country) bool) []*entity.Country {
	out := []*entity.Country{}
	for _, c := range m.data {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memRepo) List(context.Context) ([]*entity.Country, error) {
	return m.sorted(func(*entity.Country) bool { return true }), nil
}

func (m *memRepo) ListByAuthor(_ context.Context, author string) ([]*entity.Country, error) {
	m.byAuthor++
	return m.sorted(func(c *entity.Country) bool { return c.Author == author }), nil
}

func (m *memRepo) Options(context.Context) ([]entity.CountryOption, error) {
	out := []entity.CountryOption{}
	for _, c := range m.sorted(func(*entity.Country) bool { return true }) {
		out = append(out, entity.CountryOption{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, c *entity.Country) error {
	c.ID = m.next
	m.next++
	cp := *c
	m.data[c.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, c *entity.Country) error {
	if _, ok := m.data[c.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *c
	m.data[c.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.data[id]; !ok {
		return entity.ErrNotFound
	}
	delete(m.data, id)
	return nil
}

/* ───────── ヘルパー ───────── */

func newMux(repo *memRepo) *http.ServeMux {
	svc := &countryUC.Service{
		Repo:     repo,
		Notifier: notify.NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	mux := http.NewServeMux()
	country.Register(mux, svc, auth.NewVerifier(secret))
	return mux
}

func token(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, mux http.Handler, method, path, owner string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if owner != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, owner))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type writeResponse struct {
	ID      int64           `json:"id"`
	Error   string          `json:"error"`
	Notices []notify.Notice `json:"notices"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) writeResponse {
	t.Helper()
	var out writeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func austria() *entity.Country {
	return &entity.Country{ID: 1, Name: "Österreich", FullName: "Republik Österreich", Short: "AT", Author: "alice"}
}

/* ───────── テストケース ───────── */

func TestReads(t *testing.T) {
	repo := newRepo(austria(), &entity.Country{ID: 2, Name: "Deutschland", FullName: "BRD", Short: "DE", Author: "bob"})
	mux := newMux(repo)

	rec := do(t, mux, http.MethodGet, "/api/countries", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []country.DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Deutschland", list[0].Name)

	rec = do(t, mux, http.MethodGet, "/api/countries/options", "", nil)
	assert.JSONEq(t, `[{"id":2,"name":"Deutschland"},{"id":1,"name":"Österreich"}]`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/countries/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var one country.DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "AT", one.Short)

	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/countries/99", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/api/countries/x", "", nil).Code)
}

func TestMine(t *testing.T) {
	repo := newRepo(austria())
	mux := newMux(repo)

	rec := do(t, mux, http.MethodGet, "/api/countries/mine", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Zero(t, repo.byAuthor, "anonymous callers must not query")

	rec = do(t, mux, http.MethodGet, "/api/countries/mine", "alice", nil)
	var list []country.DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 1, repo.byAuthor)
}

func TestCreate(t *testing.T) {
	repo := newRepo()
	mux := newMux(repo)
	body := map[string]string{"name": "Schweiz", "full_name": "Schweizerische Eidgenossenschaft", "short": "CH"}

	rec := do(t, mux, http.MethodPost, "/api/countries", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/countries", "carol", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, int64(1), got.ID)
	require.Len(t, got.Notices, 1)
	assert.Equal(t, notify.KindSuccess, got.Notices[0].Kind)
	assert.Equal(t, "Erstellt!", got.Notices[0].Title)
	assert.Equal(t, "carol", repo.data[1].Author)
}

func TestCreate_Validation(t *testing.T) {
	mux := newMux(newRepo())

	rec := do(t, mux, http.MethodPost, "/api/countries", "carol",
		map[string]string{"name": "Schweiz", "full_name": "Schweiz", "short": "a1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode(t, rec)
	assert.Contains(t, got.Error, "short: ")
	require.Len(t, got.Notices, 1)
	assert.Equal(t, notify.KindError, got.Notices[0].Kind)

	rec = do(t, mux, http.MethodPost, "/api/countries", "carol", map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDelete_Ownership(t *testing.T) {
	repo := newRepo(austria())
	mux := newMux(repo)
	body := map[string]string{"name": "Austria", "full_name": "Republic of Austria", "short": "AUT"}

	rec := do(t, mux, http.MethodPut, "/api/countries/1", "mallory", body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Österreich", repo.data[1].Name)

	rec = do(t, mux, http.MethodPut, "/api/countries/1", "alice", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gespeichert!", decode(t, rec).Notices[0].Title)
	assert.Equal(t, "Austria", repo.data[1].Name)

	rec = do(t, mux, http.MethodDelete, "/api/countries/1", "mallory", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, mux, http.MethodDelete, "/api/countries/1", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gelöscht!", decode(t, rec).Notices[0].Title)
	assert.Empty(t, repo.data)

	rec = do(t, mux, http.MethodDelete, "/api/countries/1", "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "Country not found", got.Error)
	assert.Equal(t, "Land nicht gefunden", got.Notices[0].Title)
}
