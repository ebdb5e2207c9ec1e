package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	templateInvoice      = "invoice.html"
	templateSalesReceipt = "sales_receipt.html"
)

// TemplateEngine renders business documents to HTML
type TemplateEngine struct {
	lang       language.Tag
	dateLayout string
	templates  *template.Template
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithLanguage sets the locale used for number grouping and labels
func WithLanguage(tag language.Tag) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.lang = tag
	}
}

// WithDateLayout sets the time layout used for dates
func WithDateLayout(layout string) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.dateLayout = layout
	}
}

// NewTemplateEngine parses the embedded document templates
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		lang:       language.English,
		dateLayout: "Jan 2, 2006",
	}
	for _, opt := range opts {
		opt(e)
	}
	e.templates = template.Must(template.New("documents").Funcs(e.FuncMap()).ParseFS(templateFS, "templates/*.html"))
	return e
}

// FuncMap returns the functions available inside document templates
func (e *TemplateEngine) FuncMap() template.FuncMap {
	printer := message.NewPrinter(e.lang)
	title := cases.Title(e.lang)
	return template.FuncMap{
		"money": func(currency string, d decimal.Decimal) string {
			return formatMoney(printer, currency, d)
		},
		"quantity": func(d decimal.Decimal) string {
			return d.Truncate(4).String()
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(e.dateLayout)
		},
		"datePtr": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format(e.dateLayout)
		},
		"label": func(v fmt.Stringer) string {
			return title.String(strings.ReplaceAll(v.String(), "_", " "))
		},
		"positive": func(d decimal.Decimal) bool {
			return d.IsPositive()
		},
		"lines": func(s string) []string {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil
			}
			return strings.Split(s, "\n")
		},
	}
}

// formatMoney prints an amount with locale grouping and two decimals, prefixed by the
// ISO currency code: "USD 1,234.50", "USD -12.00"
func formatMoney(p *message.Printer, currency string, d decimal.Decimal) string {
	amount := d.Round(2).InexactFloat64()
	formatted := p.Sprint(number.Decimal(amount, number.Scale(2)))
	if currency == "" {
		return formatted
	}
	return strings.ToUpper(currency) + " " + formatted
}

// Render executes the named template
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}
