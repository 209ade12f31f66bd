// Package web embeds the HTML templates and static assets of the site.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"
)

//go:embed templates/*.html static/*
var files embed.FS

var funcs = template.FuncMap{
	"money": func(v any) string {
		switch n := v.(type) {
		case float64:
			return fmt.Sprintf("$%.2f", n)
		case int64:
			return fmt.Sprintf("$%d", n)
		case int:
			return fmt.Sprintf("$%d", n)
		}
		return fmt.Sprint(v)
	},
	"date": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("Jan 2, 2006")
	},
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"percent": func(v float64) string {
		return fmt.Sprintf("%.0f%%", v)
	},
}

// Templates parses every page template. Pages are addressed by file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}

// Static is the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
