package template

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed data/*.tmpl
var templateFS embed.FS

const OrderStatusEmail = "order_status_email.tmpl"

type Engine struct {
	templates *template.Template
}

func NewEngine() (*Engine, error) {
	tmpl, err := template.ParseFS(templateFS, "data/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS: %w", err)
	}

	return &Engine{templates: tmpl}, nil
}

func (e *Engine) Execute(name string, data any) (string, error) {
	var output strings.Builder
	if err := e.templates.ExecuteTemplate(&output, name, data); err != nil {
		return "", fmt.Errorf("tmpl.ExecuteTemplate[%s]: %w", name, err)
	}

	return output.String(), nil
}
