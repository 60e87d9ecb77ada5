package text

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var embeddedLocales embed.FS

var ErrNoLocaleFiles = errors.New("text: no locale files found")

var _ Localizer = (*Locales)(nil)

// Locales is a go-i18n bundle plus a cache of per-locale localizers.
// A Locales value is immutable after construction; reloads build a new one.
type Locales struct {
	bundle     *i18n.Bundle
	fallback   language.Tag
	localizers sync.Map // normalized locale -> *i18n.Localizer
}

// LoadLocales builds a bundle from the embedded message files, then layers
// every *.toml under overridesDir on top. An empty overridesDir skips the
// override pass.
func LoadLocales(defaultLocale, overridesDir string) (*Locales, error) {
	l := newLocales(defaultLocale)
	n, err := l.loadFS(embeddedLocales, "locales")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoLocaleFiles
	}
	if overridesDir == "" {
		return l, nil
	}
	if _, err := os.Stat(overridesDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("dir", overridesDir).Msg("text.LoadLocales overrides dir missing")
			return l, nil
		}
		return nil, fmt.Errorf("text: stat overrides dir: %w", err)
	}
	if _, err := l.loadFS(os.DirFS(overridesDir), "."); err != nil {
		return nil, err
	}
	return l, nil
}

// NewLocales loads message files from fsys/dir only. Used by tests and
// callers that ship their own message set.
func NewLocales(defaultLocale string, fsys fs.FS, dir string) (*Locales, error) {
	l := newLocales(defaultLocale)
	n, err := l.loadFS(fsys, dir)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoLocaleFiles
	}
	return l, nil
}

func newLocales(defaultLocale string) *Locales {
	tag, err := language.Parse(normalizeLocale(defaultLocale))
	if err != nil {
		tag = language.AmericanEnglish
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	return &Locales{bundle: bundle, fallback: tag}
}

func (l *Locales) loadFS(fsys fs.FS, dir string) (int, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return 0, fmt.Errorf("text: glob locale files: %w", err)
	}
	for _, file := range files {
		if _, err := l.bundle.LoadMessageFileFS(fsys, file); err != nil {
			return 0, fmt.Errorf("text: load %s: %w", file, err)
		}
		log.Debug().Str("file", file).Msg("text.Locales.loadFS loaded")
	}
	return len(files), nil
}

// DefaultLocale is the normalized fallback locale tag.
func (l *Locales) DefaultLocale() string {
	return l.fallback.String()
}

// Translate resolves key for locale, falling back to the default locale.
// When neither has the key, it returns key and false.
func (l *Locales) Translate(locale, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	cfg := &i18n.LocalizeConfig{MessageID: key}
	msg, err := l.localizer(locale).Localize(cfg)
	// a localizer settles on its first matched language, so a partial
	// message file needs an explicit second pass against the default
	var notFound *i18n.MessageNotFoundErr
	if errors.As(err, &notFound) && normalizeLocale(locale) != "" {
		msg, err = l.localizer("").Localize(cfg)
	}
	if err != nil {
		log.Debug().Str("locale", locale).Str("key", key).Err(err).Msg("text.Locales.Translate miss")
		return key, false
	}
	return msg, true
}

// Tags lists the loaded languages.
func (l *Locales) Tags() []string {
	tags := l.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}

func (l *Locales) localizer(locale string) *i18n.Localizer {
	norm := normalizeLocale(locale)
	if cached, ok := l.localizers.Load(norm); ok {
		return cached.(*i18n.Localizer)
	}
	langs := []string{l.fallback.String()}
	if norm != "" {
		langs = append([]string{norm}, langs...)
	}
	created, _ := l.localizers.LoadOrStore(norm, i18n.NewLocalizer(l.bundle, langs...))
	return created.(*i18n.Localizer)
}

// normalizeLocale turns client codes like "en_us" into BCP 47 form.
func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}
