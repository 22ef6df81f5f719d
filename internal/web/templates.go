package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*
var templateFS embed.FS

// Presentation handles all view-related logic and template rendering
type Presentation struct {
	tmpl *template.Template
}

// NewPresentation parses the embedded templates.
func NewPresentation() (*Presentation, error) {
	tmpl, err := template.New("base").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Presentation{tmpl: tmpl}, nil
}

// RenderIndex renders the full page.
func (p *Presentation) RenderIndex(w io.Writer, view ScreenView) error {
	return p.tmpl.ExecuteTemplate(w, "layout.html", view)
}

// RenderScreen renders only the swappable screen fragment.
func (p *Presentation) RenderScreen(w io.Writer, view ScreenView) error {
	return p.tmpl.ExecuteTemplate(w, "screen", view)
}
