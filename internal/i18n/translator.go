// Package i18n translates admin labels for the configured interface locale.
package i18n

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"parent-products/internal/scopeconfig"
)

// LocalePath is the config path holding the interface locale, e.g. "de_DE".
const LocalePath = "general/locale/code"

// LocaleReader reads the locale config value.
type LocaleReader interface {
	Value(ctx context.Context, path string, scope scopeconfig.Scope) (string, bool)
}

var translations = map[language.Tag]map[string]string{
	language.German: {
		"Parent Products (%s)": "Übergeordnete Produkte (%s)",
		"ID":                   "ID",
		"Thumbnail":            "Miniaturansicht",
		"SKU":                  "Artikelnummer",
		"Name":                 "Name",
		"Type":                 "Typ",
		"Link Type":            "Verknüpfungstyp",
		"Edit URL":             "Bearbeitungs-URL",
	},
	language.French: {
		"Parent Products (%s)": "Produits parents (%s)",
		"ID":                   "ID",
		"Thumbnail":            "Miniature",
		"SKU":                  "UGS",
		"Name":                 "Nom",
		"Type":                 "Type",
		"Link Type":            "Type de lien",
		"Edit URL":             "URL de modification",
	},
}

type Translator struct {
	locales LocaleReader
	cat     *catalog.Builder
}

func NewTranslator(locales LocaleReader) (*Translator, error) {
	cat := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := cat.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("register %s translation %q: %w", tag, key, err)
			}
		}
	}
	return &Translator{locales: locales, cat: cat}, nil
}

// Sprintf formats the translation of key for the locale configured at store scope.
// Keys without a translation are used as the format string. Numeric verbs apply
// the locale's digit grouping, so counts shown verbatim are passed as strings.
func (t *Translator) Sprintf(ctx context.Context, key string, args ...any) string {
	p := message.NewPrinter(t.locale(ctx), message.Catalog(t.cat))
	return p.Sprintf(key, args...)
}

func (t *Translator) locale(ctx context.Context) language.Tag {
	if t.locales == nil {
		return language.AmericanEnglish
	}
	code, ok := t.locales.Value(ctx, LocalePath, scopeconfig.ScopeStore)
	if !ok || code == "" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}
