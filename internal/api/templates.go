package api

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
)

//go:embed templates/*
var templateFS embed.FS

type templates struct {
	t *template.Template
}

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *templates {
	funcs := template.FuncMap{
		"money": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
		"score": func(f float64) string {
			return fmt.Sprintf("%.1f", f)
		},
	}
	return &templates{
		t: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

func (tp *templates) render(w io.Writer, name string, data any) {
	if err := tp.t.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("template %s: %v", name, err)
		if hw, ok := w.(http.ResponseWriter); ok {
			http.Error(hw, "template error", http.StatusInternalServerError)
		}
	}
}
