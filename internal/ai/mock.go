// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
)

const mockModel = "mock-development"

// mockProvider answers every request with a fixed three-part landing page
// in the JSON envelope requested by SystemPrompt.
type mockProvider struct{}

func newMock() *mockProvider { return &mockProvider{} }

func (p *mockProvider) Name() string { return MockName }

func (p *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]string{
		"html":       fmt.Sprintf(mockMarkup, html.EscapeString(userPrompt)),
		"css":        mockStylesheet,
		"javascript": mockScript,
	})
	if err != nil {
		return "", fmt.Errorf("mock marshal: %w", err)
	}
	return string(payload), nil
}

const mockMarkup = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Mock Landing Page</title>
</head>
<body>
    <header class="hero">
        <div class="container">
            <h1>Welcome to Our Amazing Product</h1>
            <p>This is a mock landing page generated for development purposes.</p>
            <p><strong>Your prompt:</strong> %s</p>
            <button class="cta-button">Get Started Now</button>
        </div>
    </header>
    <section class="features">
        <div class="container">
            <h2>Key Features</h2>
            <div class="feature-grid">
                <div class="feature"><h3>Feature 1</h3><p>Amazing functionality that solves your problems.</p></div>
                <div class="feature"><h3>Feature 2</h3><p>Innovative solutions for modern challenges.</p></div>
                <div class="feature"><h3>Feature 3</h3><p>User-friendly interface with powerful capabilities.</p></div>
            </div>
        </div>
    </section>
    <footer class="footer">
        <div class="container"><p>&copy; Mock Company. All rights reserved.</p></div>
    </footer>
</body>
</html>`

const mockStylesheet = `* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 1200px; margin: 0 auto; padding: 0 20px; }
.hero { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: #fff; padding: 100px 0; text-align: center; }
.hero h1 { font-size: 3rem; margin-bottom: 1rem; }
.cta-button { background: #ff6b6b; color: #fff; border: none; padding: 15px 30px; font-size: 1.1rem; border-radius: 50px; cursor: pointer; }
.features { padding: 80px 0; background: #f8f9fa; }
.features h2 { text-align: center; margin-bottom: 3rem; }
.feature-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 2rem; }
.feature { background: #fff; padding: 2rem; border-radius: 10px; text-align: center; }
.footer { background: #333; color: #fff; text-align: center; padding: 2rem 0; }
@media (max-width: 768px) {
    .hero h1 { font-size: 2rem; }
    .feature-grid { grid-template-columns: 1fr; }
}`

const mockScript = `document.addEventListener('DOMContentLoaded', function () {
    var cta = document.querySelector('.cta-button');
    if (cta) {
        cta.addEventListener('click', function () {
            console.log('cta clicked');
        });
    }
    document.querySelectorAll('.feature').forEach(function (feature) {
        feature.style.transition = 'opacity 0.6s ease';
    });
});`
