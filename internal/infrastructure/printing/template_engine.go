package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders report templates with html/template and a small
// set of formatting helpers.
type TemplateEngine struct {
	funcMap  template.FuncMap
	location *time.Location
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLocation renders dates in the given time zone instead of UTC
func WithLocation(loc *time.Location) TemplateEngineOption {
	return func(e *TemplateEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithFuncs adds or overrides template helpers
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a template engine with the default helpers
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{location: time.UTC}
	e.funcMap = template.FuncMap{
		"formatDate":     e.formatDate,
		"formatDateTime": e.formatDateTime,
		"formatPercent":  formatPercent,
		"label":          label,
		"title":          titleCase,
		"truncate":       truncate,
		"shortUUID":      shortUUID,
		"default":        defaultString,
		"inc":            func(i int) int { return i + 1 },
		"upper":          strings.ToUpper,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse compiles a named template with the engine helpers
func (e *TemplateEngine) Parse(name, content string) (*template.Template, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template "+name, err)
	}
	return tmpl, nil
}

// Execute runs a compiled template against data
func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+tmpl.Name(), err)
	}
	return buf.String(), nil
}

// RenderString parses and executes a template in one step
func (e *TemplateEngine) RenderString(name, content string, data any) (string, error) {
	tmpl, err := e.Parse(name, content)
	if err != nil {
		return "", err
	}
	return e.Execute(tmpl, data)
}

func (e *TemplateEngine) formatDate(v any) string {
	t, ok := toTime(v)
	if !ok {
		return ""
	}
	return t.In(e.location).Format("2006-01-02")
}

func (e *TemplateEngine) formatDateTime(v any) string {
	t, ok := toTime(v)
	if !ok {
		return ""
	}
	return t.In(e.location).Format("2006-01-02 15:04")
}

// formatPercent prints a value that is already a percentage, e.g. 87.5 -> "87.50%"
func formatPercent(v any) string {
	var d decimal.Decimal
	switch val := v.(type) {
	case decimal.Decimal:
		d = val
	case int:
		d = decimal.NewFromInt(int64(val))
	case float64:
		d = decimal.NewFromFloat(val)
	default:
		return fmt.Sprint(v)
	}
	return d.StringFixed(2) + "%"
}

// label turns an enum value like "not_confirmed" into "Not Confirmed"
func label(v any) string {
	return titleCase(strings.ReplaceAll(fmt.Sprint(v), "_", " "))
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// truncate shortens s to max runes, appending an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func shortUUID(v any) string {
	var s string
	switch id := v.(type) {
	case uuid.UUID:
		s = id.String()
	case *uuid.UUID:
		if id == nil {
			return ""
		}
		s = id.String()
	default:
		s = fmt.Sprint(v)
	}
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func defaultString(def string, v any) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if v != nil {
		if _, isString := v.(string); !isString {
			return fmt.Sprint(v)
		}
	}
	return def
}

func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, !val.IsZero()
	}
	return time.Time{}, false
}
