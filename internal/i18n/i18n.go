// Package i18n loads the UI message catalogs and hands out printers for them.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// DefaultTag is used when nothing better matches.
var DefaultTag = language.SimplifiedChinese

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle is a set of locale catalogs sharing one key space.
type Bundle struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
	keys    map[language.Tag]map[string]struct{}
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadEmbedded()

func Default() *Bundle {
	return defaultBundle
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadFromFS(embeddedFS)
	if err != nil {
		panic(fmt.Sprintf("load embedded catalogs: %v", err))
	}

	return bundle
}

// LoadFromFS reads every locales/*.yaml file of fsys. The default locale must
// be among them.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{
		builder: catalog.NewBuilder(catalog.Fallback(DefaultTag)),
		keys:    map[language.Tag]map[string]struct{}{},
	}

	for _, path := range paths {
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}

		var file catalogFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}

		if err := bundle.add(file); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}

	if _, ok := bundle.keys[DefaultTag]; !ok {
		return nil, fmt.Errorf("default locale %s has no catalog", DefaultTag)
	}

	// The matcher prefers the first tag, so the default goes in front.
	sort.SliceStable(bundle.tags, func(i, j int) bool {
		return bundle.tags[i] == DefaultTag && bundle.tags[j] != DefaultTag
	})
	bundle.matcher = language.NewMatcher(bundle.tags)

	return bundle, nil
}

func (b *Bundle) add(file catalogFile) error {
	tag, err := language.Parse(strings.TrimSpace(file.Locale))
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", file.Locale, err)
	}
	if _, dup := b.keys[tag]; dup {
		return fmt.Errorf("locale %s defined twice", tag)
	}

	keys := make(map[string]struct{}, len(file.Messages))
	for key, msg := range file.Messages {
		if err := b.builder.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		keys[key] = struct{}{}
	}

	b.keys[tag] = keys
	b.tags = append(b.tags, tag)

	return nil
}

// Supported lists the loaded locales, default first.
func (b *Bundle) Supported() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Match picks the closest loaded locale for an Accept-Language header or a
// bare tag such as "en" or "zh-CN".
func (b *Bundle) Match(preference string) language.Tag {
	preference = strings.TrimSpace(preference)
	if preference == "" {
		return DefaultTag
	}

	tags, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(tags) == 0 {
		return DefaultTag
	}

	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return DefaultTag
	}

	return b.tags[idx]
}

// Missing returns the keys present in the default catalog but absent from
// tag's catalog.
func (b *Bundle) Missing(tag language.Tag) []string {
	var missing []string

	have := b.keys[tag]
	for key := range b.keys[DefaultTag] {
		if _, ok := have[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)

	return missing
}

// Localizer formats catalog keys for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

func (b *Bundle) Localizer(tag language.Tag) *Localizer {
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b.builder)),
	}
}

// For is shorthand for Default().Localizer(Default().Match(preference)).
func For(preference string) *Localizer {
	return defaultBundle.Localizer(defaultBundle.Match(preference))
}

func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// T formats the message stored under key. Unknown keys come back verbatim.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}
