package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"datadash/internal"

	"github.com/gin-gonic/gin"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"join":  strings.Join,
		"add":   func(a, b int) int { return a + b },
	}
}

// parseTemplates parses every .html file under ui/templates of files
func parseTemplates(files fs.FS) (*template.Template, error) {
	templatesFS, err := fs.Sub(files, "ui/templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	names, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no templates found under ui/templates")
	}

	templates := template.New("").Funcs(templateFuncs())
	for _, name := range names {
		content, err := fs.ReadFile(templatesFS, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err := templates.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}

	internal.DefaultLogger.Debug("[TemplateInit] Parsed %d templates: %v", len(names), names)
	return templates, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		internal.DefaultLogger.Error("[Template] Rendering %s failed: %v", templateName, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "code": "INTERNAL_ERROR"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(200)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		internal.DefaultLogger.Warn("[Template] Error writing response: %v", err)
	}
}
