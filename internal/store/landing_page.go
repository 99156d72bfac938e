// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"landingai/internal/models"
)

var (
	// ErrNotFound is returned when no landing page has the requested ID.
	ErrNotFound = errors.New("landing page not found")
	// ErrForbidden is returned when the page exists but belongs to another user.
	ErrForbidden = errors.New("landing page belongs to another user")
)

const pageColumns = `
	id, user_id, title, prompt, enhanced_prompt, document, status, url,
	ai_metadata, validation, recommendations, created_at, updated_at`

// LandingPageStore handles landing page persistence. The document, AI
// metadata, validation report and recommendations live in JSONB columns.
type LandingPageStore struct {
	db *sql.DB
}

// NewLandingPageStore creates a new LandingPageStore.
func NewLandingPageStore(db *sql.DB) *LandingPageStore {
	return &LandingPageStore{db: db}
}

// Create inserts p and fills in its generated ID and timestamps.
func (s *LandingPageStore) Create(ctx context.Context, p *models.LandingPage) error {
	if p.Status == "" {
		p.Status = models.PageStatusDraft
	}
	cols, err := encodePage(p)
	if err != nil {
		return fmt.Errorf("create landing page: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO landing_pages (user_id, title, prompt, enhanced_prompt, document,
		                           status, url, ai_metadata, validation, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Title, p.Prompt, p.EnhancedPrompt, cols.document,
		p.Status, p.URL, cols.metadata, cols.validation, cols.recommendations,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create landing page: %w", err)
	}
	return nil
}

// FindByID returns the page with the given ID if it is owned by userID.
func (s *LandingPageStore) FindByID(ctx context.Context, id uuid.UUID, userID string) (*models.LandingPage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM landing_pages WHERE id = $1`, id)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find landing page: %w", err)
	}
	if p.UserID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

// ListByUser returns a page of userID's landing pages, newest first. An
// empty status matches every status.
func (s *LandingPageStore) ListByUser(ctx context.Context, userID string, status models.PageStatus, limit, offset int) ([]models.LandingPage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pageColumns+`
		FROM landing_pages
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userID, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list landing pages: %w", err)
	}
	defer rows.Close()

	pages := []models.LandingPage{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan landing page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// CountByUser returns how many pages ListByUser would page through.
func (s *LandingPageStore) CountByUser(ctx context.Context, userID string, status models.PageStatus) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM landing_pages
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
	`, userID, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count landing pages: %w", err)
	}
	return n, nil
}

// Update writes the mutable fields of p (title, status, document, url,
// validation and recommendations) and refreshes p.UpdatedAt.
func (s *LandingPageStore) Update(ctx context.Context, p *models.LandingPage) error {
	cols, err := encodePage(p)
	if err != nil {
		return fmt.Errorf("update landing page: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		UPDATE landing_pages
		SET title = $1, status = $2, document = $3, url = $4,
		    validation = $5, recommendations = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`, p.Title, p.Status, cols.document, p.URL, cols.validation, cols.recommendations,
		p.ID, p.UserID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update landing page: %w", err)
	}
	return nil
}

// Delete removes the page with the given ID owned by userID.
func (s *LandingPageStore) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landing_pages WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete landing page: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete landing page: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type pageJSON struct {
	document        string
	metadata        string
	validation      *string
	recommendations string
}

func encodePage(p *models.LandingPage) (pageJSON, error) {
	var out pageJSON

	doc, err := json.Marshal(p.Document)
	if err != nil {
		return out, fmt.Errorf("encode document: %w", err)
	}
	meta, err := json.Marshal(p.AIMetadata)
	if err != nil {
		return out, fmt.Errorf("encode ai metadata: %w", err)
	}
	recs := p.Recommendations
	if recs == nil {
		recs = []string{}
	}
	recJSON, err := json.Marshal(recs)
	if err != nil {
		return out, fmt.Errorf("encode recommendations: %w", err)
	}

	out.document, out.metadata, out.recommendations = string(doc), string(meta), string(recJSON)
	if p.Validation != nil {
		v, err := json.Marshal(p.Validation)
		if err != nil {
			return out, fmt.Errorf("encode validation: %w", err)
		}
		s := string(v)
		out.validation = &s
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*models.LandingPage, error) {
	var (
		p                           models.LandingPage
		doc, meta, validation, recs []byte
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Prompt, &p.EnhancedPrompt, &doc, &p.Status, &p.URL,
		&meta, &validation, &recs, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(doc, &p.Document); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(meta, &p.AIMetadata); err != nil {
		return nil, fmt.Errorf("decode ai metadata: %w", err)
	}
	if err := json.Unmarshal(recs, &p.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if validation != nil {
		p.Validation = &models.ValidationReport{}
		if err := json.Unmarshal(validation, p.Validation); err != nil {
			return nil, fmt.Errorf("decode validation: %w", err)
		}
	}
	return &p, nil
}
