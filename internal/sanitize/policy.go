// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sanitize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the set of toggles that relax the default deny-everything
// behaviour of the sanitizers. The zero value denies everything and drops
// the doctype; use DefaultPolicy for the conservative preset.
type Policy struct {
	// Markup
	AllowForms         bool `yaml:"allow_forms" json:"allow_forms"`
	AllowScripts       bool `yaml:"allow_scripts" json:"allow_scripts"`
	AllowExternalLinks bool `yaml:"allow_external_links" json:"allow_external_links"`
	PreserveDoctype    bool `yaml:"preserve_doctype" json:"preserve_doctype"`

	// Script
	AllowEval               bool `yaml:"allow_eval" json:"allow_eval"`
	AllowDOMWrite           bool `yaml:"allow_dom_write" json:"allow_dom_write"`
	AllowGlobalObjectAccess bool `yaml:"allow_global_object_access" json:"allow_global_object_access"`

	// Stylesheet
	AllowStyleImports     bool `yaml:"allow_style_imports" json:"allow_style_imports"`
	AllowStyleExpressions bool `yaml:"allow_style_expressions" json:"allow_style_expressions"`
}

// DefaultPolicy denies every optional capability and keeps the doctype.
func DefaultPolicy() Policy {
	return Policy{PreserveDoctype: true}
}

// LandingPagePolicy is the preset used for generated landing pages: forms,
// outbound links and DOM scripting are allowed, eval and global object
// access are not.
func LandingPagePolicy() Policy {
	return Policy{
		AllowForms:         true,
		AllowExternalLinks: true,
		PreserveDoctype:    true,
		AllowDOMWrite:      true,
	}
}

// ParsePolicy decodes a YAML document on top of base. Keys absent from the
// document keep the value from base.
func ParsePolicy(data []byte, base Policy) (Policy, error) {
	p := base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return base, fmt.Errorf("parsing sanitize policy: %w", err)
	}
	return p, nil
}

// LoadPolicyFile reads a YAML policy file and applies it on top of base.
// An empty path returns base unchanged.
func LoadPolicyFile(path string, base Policy) (Policy, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading sanitize policy %s: %w", path, err)
	}
	return ParsePolicy(data, base)
}
