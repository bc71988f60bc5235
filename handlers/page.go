package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"moviefinder/models"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	tmpl := template.Must(template.New("index.html").ParseFS(templateFS, "templates/*.html"))
	return &pageRenderer{tmpl: tmpl}
}

type pageData struct {
	models.BrowseState
	Heading      string
	ShowTrending bool
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (p *pageRenderer) render(w http.ResponseWriter, state models.BrowseState) error {
	var buf bytes.Buffer
	data := pageData{
		BrowseState:  state,
		Heading:      state.Heading(),
		ShowTrending: state.ShowTrending(),
	}
	if err := p.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
