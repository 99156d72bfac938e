package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"landingai/internal/ai"
	"landingai/internal/engine"
	"landingai/internal/middleware"
	"landingai/internal/models"
	"landingai/internal/pipeline"
	"landingai/internal/sanitize"
	"landingai/internal/store"
)

const (
	owner      = "user-1"
	stranger   = "user-2"
	goodPrompt = "A landing page for a specialty coffee shop in Istanbul"
)

const aiReply = `{"html":"<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>Beans</title></head><body><h1 onclick=\"steal()\">Beans</h1><script>alert(1)</script></body></html>","css":"h1 { color: brown; }","javascript":"console.log('ready');"}`

// memStore is an in-memory PageStore with the same ownership rules as
// the PostgreSQL store.
type memStore struct {
	mu    sync.Mutex
	pages map[uuid.UUID]models.LandingPage
	fail  error
}

func newMemStore() *memStore { return &memStore{pages: map[uuid.UUID]models.LandingPage{}} }

func (s *memStore) Create(_ context.Context, p *models.LandingPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	p.ID = uuid.New()
	if p.Status == "" {
		p.Status = models.PageStatusDraft
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.pages[p.ID] = *p
	return nil
}

func (s *memStore) FindByID(_ context.Context, id uuid.UUID, userID string) (*models.LandingPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.UserID != userID {
		return nil, store.ErrForbidden
	}
	return &p, nil
}

func (s *memStore) ListByUser(_ context.Context, userID string, status models.PageStatus, limit, offset int) ([]models.LandingPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	out := []models.LandingPage{}
	for _, p := range s.pages {
		if p.UserID == userID && (status == "" || p.Status == status) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []models.LandingPage{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) CountByUser(_ context.Context, userID string, status models.PageStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.pages {
		if p.UserID == userID && (status == "" || p.Status == status) {
			n++
		}
	}
	return n, nil
}

func (s *memStore) Update(_ context.Context, p *models.LandingPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.pages[p.ID]
	if !ok || old.UserID != p.UserID {
		return store.ErrNotFound
	}
	p.UpdatedAt = old.UpdatedAt.Add(time.Second)
	s.pages[p.ID] = *p
	return nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok || p.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.pages, id)
	return nil
}

func (s *memStore) seed(userID, title string, status models.PageStatus, created time.Time) models.LandingPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.LandingPage{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Status:    status,
		Document:  models.SanitizedDocument{Markup: "<html><head></head><body><h1>" + title + "</h1></body></html>", Stylesheet: "h1{color:red}"},
		CreatedAt: created,
		UpdatedAt: created,
	}
	s.pages[p.ID] = p
	return p
}

// fakeAI is a scripted Generator.
type fakeAI struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	calls   int
	opts    []ai.Options
	unsafe  bool
	modErr  error
	user    string
}

func (f *fakeAI) GenerateWithOptions(_ context.Context, opts ai.Options, _, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.opts = append(f.opts, opts)
	f.user = userPrompt
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return aiReply, nil
}

func (f *fakeAI) CheckPrompt(context.Context, string) (*ai.ModerationResult, error) {
	if f.modErr != nil {
		return nil, f.modErr
	}
	if f.unsafe {
		return &ai.ModerationResult{Safe: false, Categories: []string{"violence"}}, nil
	}
	return &ai.ModerationResult{Safe: true}, nil
}

func (f *fakeAI) ActiveName() string { return "gemini" }

func (f *fakeAI) Model(name string) string { return name + "-model" }

type fakePublisher struct {
	keys        []string
	unpublished []string
	err         error
}

func (p *fakePublisher) PublishPage(_ context.Context, key string, html []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.keys = append(p.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func (p *fakePublisher) Unpublish(_ context.Context, rawURL string) error {
	p.unpublished = append(p.unpublished, rawURL)
	return nil
}

type recordingLog struct {
	mu      sync.Mutex
	actions []string
}

func (l *recordingLog) Log(_ context.Context, _ uuid.UUID, action string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = append(l.actions, action)
}

type countingObserver struct {
	calls  int
	errors int
}

func (o *countingObserver) ObserveAIRequest(_ string, _ time.Duration, err error) {
	o.calls++
	if err != nil {
		o.errors++
	}
}

type fixture struct {
	store     *memStore
	ai        *fakeAI
	publisher *fakePublisher
	log       *recordingLog
	observer  *countingObserver
	router    http.Handler
}

type fixtureOption func(*fixture, *Deps)

func withPublisher(f *fixture, d *Deps) {
	f.publisher = &fakePublisher{}
	d.Publisher = f.publisher
}

func withRetries(n int) fixtureOption {
	return func(_ *fixture, d *Deps) { d.Retries = n }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	f := &fixture{
		store:    newMemStore(),
		ai:       &fakeAI{},
		log:      &recordingLog{},
		observer: &countingObserver{},
	}
	deps := Deps{
		Store:    f.store,
		AI:       f.ai,
		Pipeline: pipeline.New(sanitize.DefaultPolicy()),
		Engine:   engine.New(nil),
		CacheLog: f.log,
		Observer: f.observer,
		Timeout:  time.Second,
		Retries:  1,
	}
	for _, opt := range opts {
		opt(f, &deps)
	}
	f.router = testRouter(NewLandingPages(deps))
	return f
}

func testRouter(h *LandingPages) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := r.Header.Get("X-Test-User")
			ctx := context.WithValue(r.Context(), middleware.UserKey, &middleware.Claims{UID: uid})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Post("/generate", h.Generate)
	r.Get("/list", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/preview", h.Preview)
	r.Post("/{id}/publish", h.Publish)
	return r
}

func (f *fixture) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details []map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) models.LandingPage {
	t.Helper()
	var page models.LandingPage
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	return page
}
