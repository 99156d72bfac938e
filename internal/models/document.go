// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ParseMethod records which extraction strategy produced a document.
type ParseMethod string

const (
	ParseMethodJSON         ParseMethod = "json"
	ParseMethodCodeBlocks   ParseMethod = "codeblocks"
	ParseMethodDirectMarkup ParseMethod = "direct_markup"
	ParseMethodExtracted    ParseMethod = "extracted"
	ParseMethodGenerated    ParseMethod = "generated"
)

// SanitizedDocument is the three-part output of the pipeline. Markup is
// always a complete document with head and body; Stylesheet and Script may
// be empty.
type SanitizedDocument struct {
	Markup     string `json:"html"`
	Stylesheet string `json:"css"`
	Script     string `json:"javascript"`
}

// TotalSize returns the combined byte length of the three parts.
func (d SanitizedDocument) TotalSize() int {
	return len(d.Markup) + len(d.Stylesheet) + len(d.Script)
}

// ExtractedPayload is a SanitizedDocument tagged with the strategy that
// produced it and any non-fatal notes raised along the way.
type ExtractedPayload struct {
	SanitizedDocument
	ParseMethod ParseMethod `json:"parse_method"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// StructuralFlags are the boolean structure checks of a validation report.
type StructuralFlags struct {
	HasTitle     bool `json:"has_title"`
	HasViewport  bool `json:"has_viewport"`
	HasCharset   bool `json:"has_charset"`
	HasBody      bool `json:"has_body"`
	HasContent   bool `json:"has_content"`
	IsResponsive bool `json:"is_responsive"`
}

// SizeEstimate holds the byte length of each document part.
type SizeEstimate struct {
	Markup     int `json:"html"`
	Stylesheet int `json:"css"`
	Script     int `json:"javascript"`
	Total      int `json:"total"`
}

// ValidationReport is the outcome of validating a SanitizedDocument.
// SecurityScore is in [0, 100].
type ValidationReport struct {
	Flags           StructuralFlags `json:"structural_flags"`
	Size            SizeEstimate    `json:"size"`
	SecurityScore   int             `json:"security_score"`
	Recommendations []string        `json:"recommendations"`
}
