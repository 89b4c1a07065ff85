package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

//go:embed templates/*.html
var templateFS embed.FS

type EmailTemplateCache struct {
	lru *lru.Cache // holds *template.Template
	mu  sync.Mutex
}

func NewEmailTemplateCache(capacity int) (*EmailTemplateCache, error) {
	lruCache, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &EmailTemplateCache{
		lru: lruCache,
	}, nil
}

func (c *EmailTemplateCache) Get(name string) (*template.Template, error) {
	if v, ok := c.lru.Get(name); ok {
		return v.(*template.Template), nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// re-check under write lock
	if v, ok := c.lru.Get(name); ok {
		return v.(*template.Template), nil
	}
	tmpl, err := template.ParseFS(templateFS, "templates/"+name+".html")
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	c.lru.Add(name, tmpl)
	return tmpl, nil
}

func (c *EmailTemplateCache) Render(name EmailTemplateType, data any) (string, error) {
	tmpl, err := c.Get(string(name))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %s: %w", name, err)
	}
	return buf.String(), nil
}
