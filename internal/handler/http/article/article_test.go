package article_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/handler/http/article"
	"newsfeed-hub/internal/repository"
	artUC "newsfeed-hub/internal/usecase/article"
)

/* ───────── スタブ ───────── */

type stubRepo struct {
	repository.ArticleRepository
	article    *entity.ArticleWithNewspaper
	authors    []string
	categories []string
	err        error
}

func (s *stubRepo) GetWithNewspaper(_ context.Context, id int64) (*entity.ArticleWithNewspaper, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.article != nil && s.article.ID == id {
		return s.article, nil
	}
	return nil, nil
}

func (s *stubRepo) DistinctAuthors(context.Context) ([]string, error) { return s.authors, s.err }

func (s *stubRepo) DistinctCategories(context.Context) ([]string, error) {
	return s.categories, s.err
}

func newMux(repo *stubRepo) *http.ServeMux {
	mux := http.NewServeMux()
	article.Register(mux, &artUC.Service{Repo: repo})
	return mux
}

func do(mux http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

/* ───────── テストケース ───────── */

func TestGetHandler(t *testing.T) {
	published := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	repo := &stubRepo{article: &entity.ArticleWithNewspaper{
		Article: entity.Article{
			ID:          7,
			NewspaperID: 2,
			Title:       "Wahl in Bayern",
			Link:        "https://example.com/wahl",
			Snippet:     "Kurz",
			Author:      "Jane",
			PublishedAt: published,
		},
		NewspaperName: "Süddeutsche",
	}}
	mux := newMux(repo)

	t.Run("found", func(t *testing.T) {
		rec := do(mux, "/api/articles/7")
		require.Equal(t, http.StatusOK, rec.Code)

		var got article.DTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Süddeutsche", got.NewspaperName)
		assert.Equal(t, "Wahl in Bayern", got.Title)
		assert.Equal(t, []string{}, got.Categories)
		assert.True(t, got.PublishedAt.Equal(published))
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rec := do(mux, "/api/articles/999")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Article not found"}`, rec.Body.String())
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		for _, p := range []string{"/api/articles/abc", "/api/articles/0", "/api/articles/-1"} {
			assert.Equal(t, http.StatusBadRequest, do(mux, p).Code, p)
		}
	})

	t.Run("repository failure is hidden", func(t *testing.T) {
		rec := do(newMux(&stubRepo{err: errors.New("pq: connection reset")}), "/api/articles/7")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	})
}

func TestLookupHandlers(t *testing.T) {
	mux := newMux(&stubRepo{
		authors:    []string{"Max", "Anna", "Max", ""},
		categories: nil,
	})

	rec := do(mux, "/api/lookups/authors")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":["Anna","Max"]}`, rec.Body.String())

	rec = do(mux, "/api/lookups/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = do(newMux(&stubRepo{err: errors.New("boom")}), "/api/lookups/authors")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
