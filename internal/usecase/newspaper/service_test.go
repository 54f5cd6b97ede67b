package newspaper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"newsfeed-hub/internal/domain/entity"
	"newsfeed-hub/internal/usecase/notify"
	npUC "newsfeed-hub/internal/usecase/newspaper"
)

/*────────────────────  インメモリスタブ  ────────────────────*/

type stubRepo struct {
	data   map[int64]*entity.Newspaper
	nextID int64
	err    error
	calls  int
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]*entity.Newspaper{}, nextID: 1}
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Newspaper, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	n, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}
func (s *stubRepo) FindByRSS(_ context.Context, rss string) (*entity.Newspaper, error) {
	s.calls++
	for _, n := range s.data {
		if n.RSS == rss {
			return n, s.err
		}
	}
	return nil, s.err
}
func (s *stubRepo) List(_ context.Context) ([]*entity.Newspaper, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := []*entity.Newspaper{}
	for _, n := range s.data {
		out = append(out, n)
	}
	return out, nil
}
func (s *stubRepo) ListByAuthor(_ context.Context, author string) ([]*entity.Newspaper, error) {
	s.calls++
	out := []*entity.Newspaper{}
	for _, n := range s.data {
		if n.Author == author {
			out = append(out, n)
		}
	}
	return out, s.err
}
func (s *stubRepo) ListByCountry(_ context.Context, countryID int64) ([]*entity.Newspaper, error) {
	s.calls++
	out := []*entity.Newspaper{}
	for _, n := range s.data {
		if n.CountryID == countryID {
			out = append(out, n)
		}
	}
	return out, s.err
}
func (s *stubRepo) ListWithFeed(_ context.Context) ([]*entity.Newspaper, error) {
	return nil, s.err // ユースケースでは使用しない
}
func (s *stubRepo) Create(_ context.Context, n *entity.Newspaper) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	n.ID = s.nextID
	s.nextID++
	cp := *n
	s.data[n.ID] = &cp
	return nil
}
func (s *stubRepo) Update(_ context.Context, n *entity.Newspaper) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	cp := *n
	s.data[n.ID] = &cp
	return nil
}
func (s *stubRepo) Delete(_ context.Context, id int64) error {
	s.calls++
	if _, ok := s.data[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.data, id)
	return s.err
}

type recorder struct{ notices []notify.Notice }

func (r *recorder) Notify(_ context.Context, n notify.Notice) { r.notices = append(r.notices, n) }

/*────────────────────  テストケース  ────────────────────*/

func TestService_CreateThenGet_RoundTrip(t *testing.T) {
	repo := newStub()
	rec := &recorder{}
	svc := &npUC.Service{Repo: repo, Notifier: rec}

	in := npUC.CreateInput{
		Name: "Tagesschau", URL: "https://www.tagesschau.de", RSS: "https://www.tagesschau.de/xml/rss2",
		CountryID: 3, Description: "Nachrichten der ARD", Author: "u1",
	}
	id, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	got, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	want := &entity.Newspaper{
		ID: id, Name: in.Name, URL: in.URL, RSS: in.RSS,
		CountryID: in.CountryID, Description: in.Description, Author: "u1",
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(entity.Newspaper{}, "CreatedAt")); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if len(rec.notices) != 1 || rec.notices[0].Description != `Zeitung "Tagesschau" wurde hinzugefügt.` {
		t.Errorf("notices = %+v", rec.notices)
	}
}

func TestService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		in    npUC.CreateInput
		field string
	}{
		{"missing rss", npUC.CreateInput{Name: "Spiegel", CountryID: 1}, "rss"},
		{"invalid url", npUC.CreateInput{Name: "Spiegel", URL: "spiegel", RSS: "https://spiegel.de/rss", CountryID: 1}, "url"},
		{"no country", npUC.CreateInput{Name: "Spiegel", RSS: "https://spiegel.de/rss"}, "country"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStub()
			rec := &recorder{}
			svc := &npUC.Service{Repo: repo, Notifier: rec}

			_, err := svc.Create(context.Background(), tt.in)
			var vErr *entity.ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.field {
				t.Fatalf("err = %v, want validation error on %s", err, tt.field)
			}
			if repo.calls != 0 {
				t.Error("repository must not be called")
			}
			if len(rec.notices) != 1 || rec.notices[0].Kind != notify.KindError {
				t.Errorf("notices = %+v", rec.notices)
			}
		})
	}
}

func TestService_ListByCountry(t *testing.T) {
	repo := newStub()
	repo.data[1] = &entity.Newspaper{ID: 1, Name: "A", CountryID: 1}
	repo.data[2] = &entity.Newspaper{ID: 2, Name: "B", CountryID: 2}
	svc := &npUC.Service{Repo: repo}

	got, err := svc.ListByCountry(context.Background(), 2)
	if err != nil || len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("ListByCountry = (%v, %v)", got, err)
	}
}

func TestService_ListMine_Anonymous(t *testing.T) {
	repo := newStub()
	svc := &npUC.Service{Repo: repo}

	got, err := svc.ListMine(context.Background(), "")
	if err != nil || len(got) != 0 || repo.calls != 0 {
		t.Fatalf("ListMine(\"\") = (%v, %v), calls=%d", got, err, repo.calls)
	}
}

func TestService_UpdateAndDelete(t *testing.T) {
	repo := newStub()
	repo.data[1] = &entity.Newspaper{ID: 1, Name: "Spiegel", RSS: "https://spiegel.de/rss", CountryID: 1, Author: "u1"}
	rec := &recorder{}
	svc := &npUC.Service{Repo: repo, Notifier: rec}

	err := svc.Update(context.Background(), npUC.UpdateInput{
		ID: 1, Name: "Der Spiegel", RSS: "https://www.spiegel.de/schlagzeilen/index.rss", CountryID: 1, Owner: "u2",
	})
	if !errors.Is(err, entity.ErrForbidden) {
		t.Fatalf("foreign update err = %v, want ErrForbidden", err)
	}

	err = svc.Update(context.Background(), npUC.UpdateInput{
		ID: 1, Name: "Der Spiegel", RSS: "https://www.spiegel.de/schlagzeilen/index.rss", CountryID: 1, Owner: "u1",
	})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if repo.data[1].Name != "Der Spiegel" {
		t.Errorf("name not updated: %+v", repo.data[1])
	}

	if err := svc.Delete(context.Background(), 1, "u1"); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := svc.Delete(context.Background(), 1, "u1"); !errors.Is(err, npUC.ErrNewspaperNotFound) {
		t.Fatalf("second Delete err=%v", err)
	}
	last := rec.notices[len(rec.notices)-1]
	if last.Title != "Zeitung nicht gefunden" {
		t.Errorf("last notice = %+v", last)
	}
}
