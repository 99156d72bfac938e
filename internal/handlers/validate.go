// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"landingai/internal/models"
)

// Size limits for user-edited documents.
const (
	maxMarkupLen     = 500_000
	maxStylesheetLen = 200_000
	maxScriptLen     = 200_000
	maxBodyBytes     = 2 << 20
)

var statuses = []any{models.PageStatusDraft, models.PageStatusPublished, models.PageStatusArchived}

// updateRequest is the body of PUT /{id}. Absent fields are left unchanged.
type updateRequest struct {
	Title    *string                   `json:"title"`
	Status   *models.PageStatus        `json:"status"`
	Document *models.SanitizedDocument `json:"generated_code"`
}

// Validate implements validation.Validatable.
func (u updateRequest) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Title, validation.NilOrNotEmpty, validation.RuneLength(3, 100)),
		validation.Field(&u.Status, validation.NilOrNotEmpty, validation.In(statuses...)),
	)
}

func (u updateRequest) empty() bool {
	return u.Title == nil && u.Status == nil && u.Document == nil
}

func (u updateRequest) trimmedTitle() string {
	return strings.TrimSpace(*u.Title)
}

// documentRules bounds the three parts of an edited document.
func documentRules(d *models.SanitizedDocument) error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Markup, validation.Required, validation.Length(0, maxMarkupLen)),
		validation.Field(&d.Stylesheet, validation.Length(0, maxStylesheetLen)),
		validation.Field(&d.Script, validation.Length(0, maxScriptLen)),
	)
}
