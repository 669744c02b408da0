package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templates embed.FS

var funcs = template.FuncMap{
	"blocks": func(n int) []struct{} {
		if n < 0 {
			n = 0
		}
		return make([]struct{}, n)
	},
	"left": func(v float64) template.CSS {
		return template.CSS(fmt.Sprintf("left: %.1f%%", v))
	},
}

// Page parses the dashboard template
func Page() (*template.Template, error) {
	return template.New("index.html").Funcs(funcs).ParseFS(templates, "templates/index.html")
}
