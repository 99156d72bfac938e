// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"landingai/internal/engine"
	"landingai/internal/models"
	"landingai/internal/pipeline"
	"landingai/internal/sanitize"
)

func newSanitizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Extract and sanitize an AI response",
		Long: `Reads a raw AI response from a file or standard input, extracts the
markup, stylesheet and script, sanitizes them and prints the result as JSON.
With --html the composed page is printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipelineFromFlags(cmd)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			payload := p.ParseAndSanitize(string(raw))

			if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
				_, err := cmd.OutOrStdout().Write(engine.Compose(payload.SanitizedDocument))
				return err
			}
			return writeJSON(cmd.OutOrStdout(), payload)
		},
	}
	addPolicyFlags(cmd)
	cmd.Flags().Bool("html", false, "Print the composed HTML page instead of JSON")
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Score a sanitized document",
		Long: `Reads a document from a file or standard input and prints its validation
report as JSON. The input is either a JSON object with "html", "css" and
"javascript" keys or a bare HTML document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pipelineFromFlags(cmd)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			report, err := p.ValidateDocument(parseDocument(raw))
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	addPolicyFlags(cmd)
	return cmd
}

func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "landing", "Base sanitization policy (default, landing)")
	cmd.Flags().StringP("policy", "p", "", "YAML file applied on top of the preset")
}

func pipelineFromFlags(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	preset, _ := cmd.Flags().GetString("preset")
	path, _ := cmd.Flags().GetString("policy")

	var base sanitize.Policy
	switch preset {
	case "default":
		base = sanitize.DefaultPolicy()
	case "landing":
		base = sanitize.LandingPagePolicy()
	default:
		return nil, fmt.Errorf("unknown preset %q", preset)
	}

	policy, err := sanitize.LoadPolicyFile(path, base)
	if err != nil {
		return nil, err
	}
	return pipeline.New(policy), nil
}

// readInput reads the named file, or standard input when no file or "-"
// is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// parseDocument accepts a JSON document object or bare markup.
func parseDocument(raw []byte) models.SanitizedDocument {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var doc models.SanitizedDocument
		if err := json.Unmarshal(trimmed, &doc); err == nil && doc.Markup != "" {
			return doc
		}
	}
	return models.SanitizedDocument{Markup: string(raw)}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
