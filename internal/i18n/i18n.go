// Package i18n loads gemkey's message catalogs and translates message IDs.
//
// Catalogs are YAML files embedded from locales/. English is the bundle's
// default language; a message missing from another catalog falls back to
// English, and an unknown ID is returned as-is.
package i18n

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/tsukumogami/gemkey/internal/log"
)

// DefaultLang is used when no language is requested.
const DefaultLang = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

var loadBundle = sync.OnceValue(func() *i18n.Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		log.Default().Warn("failed to list message catalogs", "error", err)
		return bundle
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := path.Join("locales", f.Name())
		data, err := localeFS.ReadFile(name)
		if err != nil {
			log.Default().Warn("failed to read message catalog", "file", name, "error", err)
			continue
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			log.Default().Warn("failed to parse message catalog", "file", name, "error", err)
		}
	}
	return bundle
})

// Available returns the language tags of the embedded catalogs, sorted.
func Available() []string {
	tags := loadBundle().LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	sort.Strings(out)
	return out
}

// Localizer translates message IDs into one language.
type Localizer struct {
	lang string
	loc  *i18n.Localizer
}

// New returns a Localizer for lang. Empty or unknown tags resolve to the
// closest shipped catalog, English at worst.
func New(lang string) *Localizer {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = DefaultLang
	}
	return &Localizer{
		lang: lang,
		loc:  i18n.NewLocalizer(loadBundle(), lang, DefaultLang),
	}
}

// Lang returns the requested language tag.
func (l *Localizer) Lang() string {
	return l.lang
}

// T translates id, filling the message template from data. Missing IDs are
// returned unchanged. A nil Localizer translates to English.
func (l *Localizer) T(id string, data map[string]any) string {
	if l == nil {
		l = New(DefaultLang)
	}
	msg, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if msg == "" {
		if err != nil {
			log.Default().Debug("missing translation", "id", id, "lang", l.lang)
		}
		return id
	}
	return msg
}
