// Package view renders the storefront's HTML: full page shells and the
// fragments the page script swaps into them once the catalog answers.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/sprig/v3"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/Payphone-Digital/storefront/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed locales/*.toml
var localeFS embed.FS

// Page shells.
const (
	PageList     = "list"
	PageDetail   = "detail"
	PageNotFound = "not_found"
)

// Fragments.
const (
	FragmentLoading       = "loading"
	FragmentError         = "fetch_error"
	FragmentProductGrid   = "product_grid"
	FragmentProductDetail = "product_detail"
)

var supportedLanguages = []language.Tag{
	language.English,
	language.Indonesian,
}

type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
	bundle    *i18n.Bundle
	matcher   language.Matcher
}

// NewRenderer parses the embedded templates and message files.
func NewRenderer() (*Renderer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, tag := range supportedLanguages {
		path := fmt.Sprintf("locales/active.%s.toml", tag)
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			return nil, fmt.Errorf("load messages %s: %w", path, err)
		}
	}

	funcs := sprig.FuncMap()

	fragments, err := template.New("fragments").Funcs(funcs).ParseFS(templateFS, "templates/partials.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{PageList, PageDetail, PageNotFound} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.tmpl",
			"templates/partials.tmpl",
			"templates/"+name+".tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{
		pages:     pages,
		fragments: fragments,
		bundle:    bundle,
		matcher:   language.NewMatcher(supportedLanguages),
	}, nil
}

// MatchLanguage picks the supported language closest to an Accept-Language
// header. Anything unparseable falls back to English.
func (r *Renderer) MatchLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English.String()
	}
	tag, _, _ := r.matcher.Match(tags...)
	base, _ := tag.Base()
	return base.String()
}

// NewPage prepares the common page data for one request.
func (r *Renderer) NewPage(lang, titleID string) Page {
	p := Page{
		Lang:      lang,
		localizer: i18n.NewLocalizer(r.bundle, lang),
	}
	if titleID != "" {
		p.Title = p.T(titleID)
	}
	return p
}

// RenderPage writes a full HTML document.
func (r *Renderer) RenderPage(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// RenderFragment writes a partial document for the page script to swap in.
func (r *Renderer) RenderFragment(w io.Writer, name string, data any) error {
	if r.fragments.Lookup(name) == nil {
		return fmt.Errorf("unknown fragment %q", name)
	}
	return r.fragments.ExecuteTemplate(w, name, data)
}

// Static returns the page script and stylesheet.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is embedded by every template payload.
type Page struct {
	Lang        string
	Title       string
	FragmentURL string

	localizer *i18n.Localizer
}

// T returns the localized message for id.
func (p Page) T(id string) string {
	return p.TData(id, nil)
}

// TData returns the localized message for id, filled from data.
func (p Page) TData(id string, data map[string]any) string {
	if p.localizer == nil {
		return id
	}
	msg, err := p.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil && msg == "" {
		return id
	}
	return msg
}

type ListPage struct {
	Page
	Sort model.SortOrder
}

type ProductGrid struct {
	Page
	Products []model.ProductSummary
}

type DetailPage struct {
	Page
	ID model.ProductID
}

type ProductDetail struct {
	Page
	Product *model.Product
}

// RatingSummary renders "rate (count rating)".
func (d ProductDetail) RatingSummary() string {
	if d.Product == nil {
		return ""
	}
	return d.TData("RatingSummary", map[string]any{
		"Rate":  d.Product.Rating.Rate.String(),
		"Count": d.Product.Rating.Count,
	})
}
