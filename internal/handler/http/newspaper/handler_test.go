package newspaper_test

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
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/handler/http/auth"
	"newsfeed-hub/internal/handler/http/newspaper"
	"newsfeed-hub/internal/repository"
	newspaperUC "newsfeed-hub/internal/usecase/newspaper"
	"newsfeed-hub/internal/usecase/notify"
)

const secret = "newspaper-secret"

type memRepo struct {
	repository.NewspaperRepository
	data map[int64]*entity.Newspaper
	next int64
}

func newRepo(seed ...*entity.Newspaper) *memRepo {
	m := &memRepo{data: map[int64]*entity.Newspaper{}, next: 100}
	for _, n := range seed {
		m.data[n.ID] = n
	}
	return m
}

func (m *memRepo) Get(_ context.Context, id int64) (*entity.Newspaper, error) {
	n, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (m *memRepo) filter(keep func(*entity.Newspaper) bool) []*entity.Newspaper {
	out := []*entity.Newspaper{}
	for _, n := range m.data {
		if keep(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memRepo) List(context.Context) ([]*entity.Newspaper, error) {
	return m.filter(func(*entity.Newspaper) bool { return true }), nil
}

func (m *memRepo) ListByCountry(_ context.Context, countryID int64) ([]*entity.Newspaper, error) {
	return m.filter(func(n *entity.Newspaper) bool { return n.CountryID == countryID }), nil
}

func (m *memRepo) ListByAuthor(_ context.Context, author string) ([]*entity.Newspaper, error) {
	return m.filter(func(n *entity.Newspaper) bool { return n.Author == author }), nil
}

func (m *memRepo) Create(_ context.Context, n *entity.Newspaper) error {
	n.ID = m.next
	m.next++
	cp := *n
	m.data[n.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, n *entity.Newspaper) error {
	cp := *n
	m.data[n.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	delete(m.data, id)
	return nil
}

func newMux(repo *memRepo) *http.ServeMux {
	mux := http.NewServeMux()
	newspaper.Register(mux, &newspaperUC.Service{
		Repo:     repo,
		Notifier: notify.NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, auth.NewVerifier(secret))
	return mux
}

func request(t *testing.T, mux http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func seed() *memRepo {
	return newRepo(
		&entity.Newspaper{ID: 1, Name: "Der Standard", RSS: "https://derstandard.at/rss", CountryID: 1, Author: "alice"},
		&entity.Newspaper{ID: 2, Name: "Die Presse", RSS: "https://diepresse.com/rss", CountryID: 1},
		&entity.Newspaper{ID: 3, Name: "NZZ", RSS: "https://nzz.ch/rss", CountryID: 2},
	)
}

func names(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list []newspaper.DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.Name)
	}
	return out
}

func TestList(t *testing.T) {
	mux := newMux(seed())

	assert.Equal(t, []string{"Der Standard", "Die Presse", "NZZ"}, names(t, request(t, mux, http.MethodGet, "/api/newspapers", "", nil)))
	assert.Equal(t, []string{"NZZ"}, names(t, request(t, mux, http.MethodGet, "/api/newspapers?country=2", "", nil)))
	assert.Equal(t, []string{}, names(t, request(t, mux, http.MethodGet, "/api/newspapers?country=7", "", nil)))
	assert.Equal(t, http.StatusBadRequest, request(t, mux, http.MethodGet, "/api/newspapers?country=x", "", nil).Code)
}

func TestMine_InvalidTokenIsAnonymous(t *testing.T) {
	mux := newMux(seed())

	assert.Equal(t, []string{}, names(t, request(t, mux, http.MethodGet, "/api/newspapers/mine", "garbage", nil)))
	assert.Equal(t, []string{"Der Standard"}, names(t, request(t, mux, http.MethodGet, "/api/newspapers/mine", tokenFor(t, "alice"), nil)))
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	mux := newMux(newRepo())
	in := map[string]any{
		"name":        "Tages-Anzeiger",
		"url":         "https://www.tagesanzeiger.ch",
		"rss":         "https://www.tagesanzeiger.ch/rss.html",
		"country":     2,
		"description": "Zürcher Tageszeitung",
	}

	rec := request(t, mux, http.MethodPost, "/api/newspapers", tokenFor(t, "bob"), in)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID      int64           `json:"id"`
		Notices []notify.Notice `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created.Notices, 1)
	assert.Equal(t, "Erstellt!", created.Notices[0].Title)

	rec = request(t, mux, http.MethodGet, "/api/newspapers/100", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got newspaper.DTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	want := newspaper.DTO{
		ID:          created.ID,
		Name:        "Tages-Anzeiger",
		URL:         "https://www.tagesanzeiger.ch",
		RSS:         "https://www.tagesanzeiger.ch/rss.html",
		Country:     2,
		Description: "Zürcher Tageszeitung",
		Author:      "bob",
	}
	got.CreatedAt = time.Time{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("newspaper mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_InvalidRSS(t *testing.T) {
	rec := request(t, newMux(newRepo()), http.MethodPost, "/api/newspapers", tokenFor(t, "bob"),
		map[string]any{"name": "Blick", "rss": "ftp://blick.ch/rss", "country": 2})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "rss: ")
}

func TestUpdate_ForbiddenAndUnowned(t *testing.T) {
	repo := seed()
	mux := newMux(repo)
	body := map[string]any{"name": "Die Presse AT", "rss": "https://diepresse.com/rss", "country": 1}

	rec := request(t, mux, http.MethodPut, "/api/newspapers/1", tokenFor(t, "mallory"), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 作成者のない新聞は認証済みなら誰でも編集できる
	rec = request(t, mux, http.MethodPut, "/api/newspapers/2", tokenFor(t, "mallory"), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Die Presse AT", repo.data[2].Name)

	rec = request(t, mux, http.MethodDelete, "/api/newspapers/42", tokenFor(t, "alice"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
