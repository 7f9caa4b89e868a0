// Package i18n localises interface strings from embedded TOML message files.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

const LangQueryParam = "lang"

type Catalog struct {
	bundle    *goi18n.Bundle
	matcher   language.Matcher
	supported []language.Tag
}

// New loads every embedded locale. defaultLanguage wins when a request names
// nothing supported.
func New(defaultLanguage string) (*Catalog, error) {
	fallback, err := language.Parse(strings.TrimSpace(defaultLanguage))
	if err != nil {
		fallback = language.English
	}

	bundle := goi18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", path.Base(file), err)
		}
	}

	supported := []language.Tag{fallback}
	for _, tag := range bundle.LanguageTags() {
		if tag != fallback {
			supported = append(supported, tag)
		}
	}

	return &Catalog{
		bundle:    bundle,
		matcher:   language.NewMatcher(supported),
		supported: supported,
	}, nil
}

// Languages lists supported language tags, default first.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.supported))
	for _, tag := range c.supported {
		out = append(out, tag.String())
	}
	return out
}

// ForRequest picks a language from ?lang= first, then Accept-Language.
func (c *Catalog) ForRequest(r *http.Request) *Localizer {
	if r == nil {
		return c.For("")
	}
	return c.For(r.URL.Query().Get(LangQueryParam), r.Header.Get("Accept-Language"))
}

func (c *Catalog) For(preferences ...string) *Localizer {
	_, index := language.MatchStrings(c.matcher, preferences...)
	tag := c.supported[0]
	if index >= 0 && index < len(c.supported) {
		tag = c.supported[index]
	}

	return &Localizer{
		localizer: goi18n.NewLocalizer(c.bundle, tag.String()),
		tag:       tag,
	}
}

type Localizer struct {
	localizer *goi18n.Localizer
	tag       language.Tag
}

func (l *Localizer) Lang() string {
	return l.tag.String()
}

// T returns the message for id, or id itself when no locale defines it.
func (l *Localizer) T(id string) string {
	return l.localize(&goi18n.LocalizeConfig{MessageID: id}, id)
}

func (l *Localizer) Tf(id string, data map[string]any) string {
	return l.localize(&goi18n.LocalizeConfig{MessageID: id, TemplateData: data}, id)
}

// Plural selects the plural form for count and exposes it as {{.Count}}.
func (l *Localizer) Plural(id string, count int) string {
	return l.localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	}, id)
}

func (l *Localizer) localize(cfg *goi18n.LocalizeConfig, fallback string) string {
	if l == nil || l.localizer == nil {
		return fallback
	}

	message, err := l.localizer.Localize(cfg)
	if err != nil || message == "" {
		return fallback
	}
	return message
}
