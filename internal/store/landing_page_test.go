package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"landingai/internal/models"
)

func newTestPage(userID, title string) *models.LandingPage {
	return &models.LandingPage{
		UserID:         userID,
		Title:          title,
		Prompt:         "A landing page for a bakery",
		EnhancedPrompt: "Create a landing page for: A landing page for a bakery",
		Document: models.SanitizedDocument{
			Markup:     "<!DOCTYPE html><html><body><h1>Bakery</h1></body></html>",
			Stylesheet: "h1{color:brown}",
			Script:     "console.log('hi');",
		},
		AIMetadata: models.AIMetadata{
			Provider:       "mock",
			Model:          "mock-development",
			ProcessingTime: 42,
			ParseMethod:    models.ParseMethodJSON,
			Keywords:       []string{"bakery"},
			Language:       "en",
		},
		Validation: &models.ValidationReport{
			Flags:         models.StructuralFlags{HasBody: true, HasContent: true},
			SecurityScore: 100,
		},
		Recommendations: []string{"Add a <title> element"},
	}
}

func TestLandingPageStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewLandingPageStore(db)
	ctx := context.Background()
	user := "store-test-" + uuid.NewString()
	t.Cleanup(func() { cleanPages(t, db, user) })

	p := newTestPage(user, "Bakery")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("expected generated ID")
	}
	if p.Status != models.PageStatusDraft {
		t.Errorf("status: got %q, want draft", p.Status)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := s.FindByID(ctx, p.ID, user)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Document != p.Document {
		t.Errorf("document: got %+v, want %+v", got.Document, p.Document)
	}
	if got.AIMetadata.ParseMethod != models.ParseMethodJSON || got.AIMetadata.ProcessingTime != 42 {
		t.Errorf("ai metadata: got %+v", got.AIMetadata)
	}
	if got.Validation == nil || got.Validation.SecurityScore != 100 {
		t.Errorf("validation: got %+v", got.Validation)
	}
	if len(got.Recommendations) != 1 {
		t.Errorf("recommendations: got %v", got.Recommendations)
	}
	if got.URL != nil {
		t.Errorf("url: got %q, want nil", *got.URL)
	}
}

func TestLandingPageStoreNullValidation(t *testing.T) {
	db := testDB(t)
	s := NewLandingPageStore(db)
	ctx := context.Background()
	user := "store-test-" + uuid.NewString()
	t.Cleanup(func() { cleanPages(t, db, user) })

	p := newTestPage(user, "No report")
	p.Validation = nil
	p.Recommendations = nil
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.FindByID(ctx, p.ID, user)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Validation != nil {
		t.Errorf("validation: got %+v, want nil", got.Validation)
	}
	if got.Recommendations == nil || len(got.Recommendations) != 0 {
		t.Errorf("recommendations: got %#v, want empty slice", got.Recommendations)
	}
}

func TestLandingPageStoreFindErrors(t *testing.T) {
	db := testDB(t)
	s := NewLandingPageStore(db)
	ctx := context.Background()
	user := "store-test-" + uuid.NewString()
	t.Cleanup(func() { cleanPages(t, db, user) })

	if _, err := s.FindByID(ctx, uuid.New(), user); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing page: got %v, want ErrNotFound", err)
	}

	p := newTestPage(user, "Owned")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.FindByID(ctx, p.ID, "someone-else"); !errors.Is(err, ErrForbidden) {
		t.Errorf("other owner: got %v, want ErrForbidden", err)
	}
}

func TestLandingPageStoreListAndCount(t *testing.T) {
	db := testDB(t)
	s := NewLandingPageStore(db)
	ctx := context.Background()
	user := "store-test-" + uuid.NewString()
	t.Cleanup(func() { cleanPages(t, db, user) })

	for i, title := range []string{"First", "Second", "Third"} {
		p := newTestPage(user, title)
		if i == 2 {
			p.Status = models.PageStatusPublished
		}
		if err := s.Create(ctx, p); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}

	all, err := s.ListByUser(ctx, user, "", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(all))
	}
	if all[0].Title != "Third" {
		t.Errorf("expected newest first, got %q", all[0].Title)
	}

	page, err := s.ListByUser(ctx, user, "", 2, 2)
	if err != nil {
		t.Fatalf("ListByUser offset: %v", err)
	}
	if len(page) != 1 || page[0].Title != "First" {
		t.Errorf("offset page: got %d pages", len(page))
	}

	drafts, err := s.CountByUser(ctx, user, models.PageStatusDraft)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if drafts != 2 {
		t.Errorf("draft count: got %d, want 2", drafts)
	}
	total, err := s.CountByUser(ctx, user, "")
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if total != 3 {
		t.Errorf("total count: got %d, want 3", total)
	}

	none, err := s.ListByUser(ctx, "nobody-"+uuid.NewString(), "", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser empty: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestLandingPageStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewLandingPageStore(db)
	ctx := context.Background()
	user := "store-test-" + uuid.NewString()
	t.Cleanup(func() { cleanPages(t, db, user) })

	p := newTestPage(user, "Before")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	created := p.UpdatedAt

	url := "https://pages.example.com/before.html"
	p.Title = "After"
	p.Status = models.PageStatusPublished
	p.URL = &url
	p.Document.Stylesheet = "h1{color:red}"
	if err := s.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.UpdatedAt.Before(created) {
		t.Error("expected updated_at to move forward")
	}

	got, err := s.FindByID(ctx, p.ID, user)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Title != "After" || got.Status != models.PageStatusPublished {
		t.Errorf("got title %q status %q", got.Title, got.Status)
	}
	if got.URL == nil || *got.URL != url {
		t.Errorf("url: got %v", got.URL)
	}
	if got.Document.Stylesheet != "h1{color:red}" {
		t.Errorf("stylesheet: got %q", got.Document.Stylesheet)
	}

	other := *p
	other.UserID = "someone-else"
	if err := s.Update(ctx, &other); !errors.Is(err, ErrNotFound) {
		t.Errorf("update by other owner: got %v, want ErrNotFound", err)
	}
}

func TestLandingPageStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewLandingPageStore(db)
	ctx := context.Background()
	user := "store-test-" + uuid.NewString()
	t.Cleanup(func() { cleanPages(t, db, user) })

	p := newTestPage(user, "Doomed")
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(ctx, p.ID, "someone-else"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete by other owner: got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, p.ID, user); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.FindByID(ctx, p.ID, user); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, p.ID, user); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
