package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"finance/src/utils"
)

//go:embed templates
var files embed.FS

var pages = []string{
	"apology",
	"buy",
	"history",
	"index",
	"login",
	"quote",
	"quoted",
	"register",
	"sell",
}

// View is what every page template receives. LoggedIn switches the
// navigation bar, Data is the page specific payload.
type View struct {
	LoggedIn bool
	Data     any
}

// Apology is the payload of the apology page.
type Apology struct {
	Code    int
	Message string
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page once together with the layout and the stylesheet.
func New() (*Renderer, error) {
	css, err := files.ReadFile("templates/styles.css")
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"usd": utils.USD,
		"datetime": func(t time.Time) string {
			return t.Format(utils.DateTimeLayout)
		},
		"css": func() template.CSS {
			return template.CSS(css)
		},
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		r.templates[page] = tpl
	}
	return r, nil
}

// Render writes the page with the given status. The page is rendered into a
// buffer first so a template failure never leaves a half written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, view View) error {
	tpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
