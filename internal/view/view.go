package view

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Load parses every embedded page and partial into one template set for
// the gin engine.
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static returns the embedded asset tree rooted at its contents, for
// mounting under /static.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

// Funcs exposes the presenter helpers to the templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"statusLabel": StatusLabel,
		"statusClass": StatusClass,
		"formatDate":  FormatDate,
		"dayLabel":    DayLabel,
	}
}
