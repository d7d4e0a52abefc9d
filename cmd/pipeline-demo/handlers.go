package main

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/dmitrymomot/pipeline"
	"github.com/dmitrymomot/pipeline/middlewares"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><title>pipeline demo</title></head>
<body>
{{if .Name}}<p>Thanks, {{.Name}}.</p>{{end}}
<form method="post" action="/">
  <input type="hidden" name="{{.Field}}" value="{{.Token}}">
  <input type="text" name="name" placeholder="Your name">
  <button type="submit">Send</button>
</form>
</body>
</html>
`))

type page struct {
	Field string
	Token string
	Name  string
}

// formPage renders the form on GET and accepts it on POST. By the time a
// POST gets here the CSRF middleware has already consumed its token.
func formPage(field string) pipeline.Handler {
	return pipeline.Terminal(func(r *http.Request) (*pipeline.Response, error) {
		if r.URL.Path != "/" {
			return nil, pipeline.NewHTTPError(http.StatusNotFound, "not found")
		}

		var p page
		switch r.Method {
		case http.MethodGet, http.MethodHead:
		case http.MethodPost:
			p.Name = r.PostForm.Get("name")
		default:
			return nil, pipeline.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed")
		}

		token, err := middlewares.CSRFToken(r)
		if err != nil {
			return nil, err
		}
		p.Field, p.Token = field, token

		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, p); err != nil {
			return nil, err
		}
		return pipeline.HTML(http.StatusOK, buf.String()), nil
	})
}
