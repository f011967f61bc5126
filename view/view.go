// Package view renders the standalone HTML print documents (invoice, service
// sheet, calendar). Templates are embedded and parsed once per name.
package view

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tplCache = struct {
	sync.RWMutex
	m map[string]*template.Template
}{m: map[string]*template.Template{}}

// Funcs returns the helpers available to every print template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":    Money,
		"percent":  Percent,
		"date":     func(t time.Time) string { return formatTime(t, "02/01/2006") },
		"datetime": func(t time.Time) string { return formatTime(t, "02/01/2006 15:04") },
		"timeOfDay": func(t time.Time) string {
			return formatTime(t, "15:04")
		},
		"datePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return formatTime(*t, "02/01/2006")
		},
		"upper": strings.ToUpper,
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) (map[string]any, error) {
			if len(values)%2 != 0 {
				return nil, errors.New("dict expects an even number of arguments")
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				k, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict key %v is not a string", values[i])
				}
				m[k] = values[i+1]
			}
			return m, nil
		},
	}
}

// Money formats an amount as "1 234,50 €".
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	out := b.String() + "," + frac + " €"
	if neg {
		out = "-" + out
	}
	return out
}

// Percent formats a fractional rate as "20 %" or "5,5 %".
func Percent(rate decimal.Decimal) string {
	return strings.ReplaceAll(rate.Mul(decimal.NewFromInt(100)).Round(2).String(), ".", ",") + " %"
}

func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func load(name string) (*template.Template, error) {
	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}
	t, err := template.New("layout.html").Funcs(Funcs()).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, err
	}
	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes the named print document inside the shared layout.
// name is the file name under templates (e.g. "invoice.html").
func Render(w io.Writer, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["GeneratedAt"]; !exists {
		data["GeneratedAt"] = time.Now()
	}
	if _, exists := data["Company"]; !exists {
		data["Company"] = "Déménagement"
	}
	t, err := load(name)
	if err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}
	return t.Execute(w, data)
}
