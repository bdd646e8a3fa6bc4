package echoweb

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageRenderer implements echo.Renderer with the embedded page templates.
type pageRenderer struct {
	tmpl *template.Template
}

var _ echo.Renderer = (*pageRenderer)(nil)

func mustPageRenderer() *pageRenderer {
	return &pageRenderer{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (r *pageRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return errors.Wrapf(r.tmpl.ExecuteTemplate(w, name, data), "rendering %q", name)
}
