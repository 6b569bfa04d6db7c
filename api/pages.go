package api

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"roster_index.html",
	"roster_detail.html",
	"graphs.html",
	"bodycam_index.html",
	"bodycam_dashboard.html",
	"login.html",
	"tip.html",
	"feedback.html",
	"tips.html",
	"blog_index.html",
	"blog_detail.html",
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("January 2, 2006") },
	"iso":  func(t time.Time) string { return t.Format("2006-01-02") },
	"prev": func(year int) int { return year - 1 },
	"next": func(year int) int { return year + 1 },
}

// pages holds one parsed template set per page, each sharing layout.html.
type pages struct {
	set map[string]*template.Template
}

func loadPages() (*pages, error) {
	p := &pages{set: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		p.set[name] = t
	}
	return p, nil
}

func (p *pages) render(w io.Writer, name string, data any) error {
	if p == nil {
		return fmt.Errorf("templates not loaded")
	}
	t, ok := p.set[name]
	if !ok {
		return fmt.Errorf("unknown page %s", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
