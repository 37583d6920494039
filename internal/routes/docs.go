package routes

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/docs"
	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/gofiber/fiber/v2"
)

const docsIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; background: #f6f7f4; color: #132019; }
    main { max-width: 1100px; margin: 0 auto; padding: 32px 20px 48px; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; background: #fff; }
    th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #d8ddd6; }
    code { font-size: 0.92rem; }
    pre { padding: 20px; overflow: auto; border-radius: 14px; background: #0f172a; color: #e2e8f0; }
    .muted { color: #536258; }
  </style>
</head>
<body>
  <main>
    <h1>{{ .Title }}</h1>
    <p class="muted">Loaded {{ .LoadedAt }}. Raw spec: <a href="/docs/openapi.yaml">/docs/openapi.yaml</a></p>
    <table>
      <thead><tr><th>Method</th><th>Path</th><th>Access</th></tr></thead>
      <tbody>
      {{ range .Endpoints }}<tr><td><code>{{ .Method }}</code></td><td><code>{{ .Path }}</code></td><td>{{ .Access }}</td></tr>
      {{ end }}</tbody>
    </table>
    <pre>{{ .Spec }}</pre>
  </main>
</body>
</html>
`

type docsEndpoint struct {
	Method string
	Path   string
	Access string
}

type docsPageData struct {
	Title     string
	LoadedAt  string
	Endpoints []docsEndpoint
	Spec      string
}

var documentedEndpoints = []docsEndpoint{
	{"GET", "/health", "public"},
	{"GET", "/api/test", "public"},
	{"POST", "/api/register", "public"},
	{"POST", "/api/login", "public"},
	{"GET", "/api/user", "authenticated"},
	{"POST", "/api/logout", "authenticated"},
	{"GET", "/api/admin/check", "authenticated"},
	{"GET", "/api/coach/check", "authenticated"},
	{"GET", "/api/client/check", "authenticated"},
	{"GET", "/api/coach/sessions", "coach"},
	{"POST", "/api/coach/sessions", "coach"},
	{"DELETE", "/api/coach/sessions/{id}", "coach"},
	{"GET", "/api/client/available-sessions", "client"},
	{"GET", "/api/client/booked-sessions", "client"},
	{"POST", "/api/client/book-session/{sessionId}", "client"},
	{"DELETE", "/api/client/cancel-booking/{bookingId}", "client"},
}

func registerDocsRoutes(app fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	indexTemplate, err := template.New("docs-index").Parse(docsIndexHTML)
	if err != nil {
		return fmt.Errorf("parse docs template: %w", err)
	}

	var page bytes.Buffer
	if err := indexTemplate.Execute(&page, docsPageData{
		Title:     "fullstackAPP API Docs",
		LoadedAt:  time.Now().UTC().Format(time.RFC3339),
		Endpoints: documentedEndpoints,
		Spec:      string(docs.OpenAPI),
	}); err != nil {
		return fmt.Errorf("render docs page: %w", err)
	}
	rendered := page.Bytes()

	indexHandler := func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'")
		return c.Status(fiber.StatusOK).Send(rendered)
	}

	app.Get("/docs", indexHandler)
	app.Get("/docs/", indexHandler)
	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, "application/yaml; charset=utf-8")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="openapi.yaml"`)
		return c.Status(fiber.StatusOK).Send(docs.OpenAPI)
	})

	return nil
}

func applyDocsBaseHeaders(c *fiber.Ctx, contentType string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store, max-age=0")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set("Referrer-Policy", "no-referrer")
	c.Set("Cross-Origin-Resource-Policy", "same-origin")
	c.Set("X-Robots-Tag", "noindex, nofollow")
}
