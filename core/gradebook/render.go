package gradebook

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a Table into the inner markup of its <tbody>.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "gradebook.NewRenderer")
	}
	return &Renderer{tmpl: tmpl}, nil
}

func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Body renders one row per entity in fetch order followed by the add row.
// The output only depends on the table, so rendering an unchanged table yields identical bytes.
func (r *Renderer) Body(t Table) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "tbody", t); err != nil {
		return "", errors.Wrapf(err, "gradebook.Renderer.Body(%s)", t.Kind)
	}
	return template.HTML(buf.String()), nil
}
