package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landingai/internal/middleware"
	"landingai/internal/models"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const reply = "Here is your page:\n```html\n<!DOCTYPE html><html><head><title>Shop</title></head><body><h1 onclick=\"x()\">Shop</h1></body></html>\n```\n```css\nh1 { color: navy; }\n```\n```javascript\ndocument.write('hi');\n```"

func TestSanitizeCommand(t *testing.T) {
	out, err := run(t, reply, "sanitize")
	require.NoError(t, err)

	var payload models.ExtractedPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, models.ParseMethodCodeBlocks, payload.ParseMethod)
	assert.NotContains(t, payload.Markup, "onclick")
	assert.Contains(t, payload.Stylesheet, "navy")
	assert.Contains(t, payload.Script, "console.log('hi')")
}

func TestSanitizeCommandHTML(t *testing.T) {
	out, err := run(t, reply, "sanitize", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<style>")
	assert.Contains(t, out, "color: navy")
	assert.Contains(t, out, "<h1>Shop</h1>")
}

func TestSanitizeCommandFileAndPolicy(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "reply.txt")
	require.NoError(t, os.WriteFile(input, []byte(reply), 0o600))
	policy := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(policy, []byte("allow_dom_write: false\n"), 0o600))

	out, err := run(t, "", "sanitize", "--preset", "default", "--policy", policy, input)
	require.NoError(t, err)
	assert.Contains(t, out, `"parse_method"`)

	_, err = run(t, "", "sanitize", filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = run(t, reply, "sanitize", "--preset", "lenient")
	assert.ErrorContains(t, err, "unknown preset")
}

func TestValidateCommand(t *testing.T) {
	doc := `{"html":"<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width\"><title>T</title></head><body><h1>T</h1></body></html>","css":"h1{}","javascript":""}`

	tests := []struct {
		name  string
		input string
	}{
		{"json document", doc},
		{"bare markup", "<html><body><p>hello</p></body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.input, "validate")
			require.NoError(t, err)

			var report models.ValidationReport
			require.NoError(t, json.Unmarshal([]byte(out), &report))
			assert.GreaterOrEqual(t, report.SecurityScore, 0)
			assert.LessOrEqual(t, report.SecurityScore, 100)
		})
	}
}

func TestParseDocument(t *testing.T) {
	assert.Equal(t, "<p>x</p>", parseDocument([]byte(`{"html":"<p>x</p>","css":"a{}"}`)).Markup)
	assert.Equal(t, "a{}", parseDocument([]byte(`{"html":"<p>x</p>","css":"a{}"}`)).Stylesheet)
	assert.Equal(t, "<p>y</p>", parseDocument([]byte("<p>y</p>")).Markup)
	assert.Equal(t, `{"css":"a{}"}`, parseDocument([]byte(`{"css":"a{}"}`)).Markup)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestWriteTimeout(t *testing.T) {
	assert.Equal(t, 40*time.Second, writeTimeout(30*time.Second, 1))
	// 3 x 30s calls, 2s + 4s backoff, 10s margin.
	assert.Equal(t, 106*time.Second, writeTimeout(30*time.Second, 3))
}

func TestTokenCommand(t *testing.T) {
	out, err := run(t, "", "token", "--uid", "user-9", "--secret", "s3cret")
	require.NoError(t, err)

	claims, err := middleware.ParseToken(strings.TrimSpace(out), []byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UID)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))

	_, err = run(t, "", "token", "--secret", "s3cret")
	assert.Error(t, err, "uid is required")

	t.Setenv("JWT_SECRET", "")
	_, err = run(t, "", "token", "--uid", "user-9")
	assert.ErrorContains(t, err, "no secret")
}
