package mailer

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

// ErrUnknownTemplate is returned for a template name with no embedded files.
var ErrUnknownTemplate = errors.New("unknown notification template")

// Message is a rendered notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Templates renders the embedded notification templates.
type Templates struct {
	text *texttemplate.Template
	html *htmltemplate.Template
}

// LoadTemplates parses every embedded template.
func LoadTemplates() (*Templates, error) {
	text, err := texttemplate.New("").Option("missingkey=zero").ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}

	html, err := htmltemplate.New("").Option("missingkey=zero").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}

	return &Templates{text: text, html: html}, nil
}

// Render executes the text and HTML variants of name with data.
// The subject comes from the "<name>.subject" block of the text variant.
func (t *Templates) Render(name string, data map[string]string) (*Message, error) {
	textTmpl := t.text.Lookup(name + ".txt")
	htmlTmpl := t.html.Lookup(name + ".html")
	if textTmpl == nil || htmlTmpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var subject, text, html bytes.Buffer
	if err := t.text.ExecuteTemplate(&subject, name+".subject", data); err != nil {
		return nil, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := textTmpl.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render %s html: %w", name, err)
	}

	return &Message{
		Subject: strings.TrimSpace(subject.String()),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
