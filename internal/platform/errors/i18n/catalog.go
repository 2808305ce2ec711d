// Package i18n provides internationalization support for error messages.
//
// Messages live in embedded locale files (locales/<locale>/errors.yaml) and are
// registered into an x/text message catalog. Message bodies are text/template
// strings rendered with error metadata, so they must not contain printf verbs.
package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical source locale; every other locale falls back to it.
const BaseLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

//go:embed locales/*/*.yaml
var localeFS embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
	printer  *message.Printer
	base     *Catalog
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds override and embedded catalogs by locale.
	catalogs = map[string]*Catalog{}
	matcher  language.Matcher
	// supported is ordered with BaseLocale first so unmatched tags resolve to it.
	supported []string
)

func init() {
	loaded, err := LoadFromFS(localeFS)
	if err != nil {
		panic(fmt.Sprintf("load error catalogs: %v", err))
	}
	tags := make([]language.Tag, 0, len(loaded))
	for _, cat := range loaded {
		catalogs[cat.locale] = cat
		supported = append(supported, cat.locale)
		tags = append(tags, language.Make(cat.locale))
	}
	matcher = language.NewMatcher(tags)
}

// LoadFromFS parses every locales/*/*.yaml file and returns one catalog per
// locale, base locale first.
func LoadFromFS(fsys fs.FS) ([]*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	byLocale := map[string]map[Code]string{}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if _, err := language.Parse(locale); err != nil {
			return nil, fmt.Errorf("catalog %s: parse locale %q: %w", path, locale, err)
		}
		messages, ok := byLocale[locale]
		if !ok {
			messages = map[Code]string{}
			byLocale[locale] = messages
		}
		for key, value := range file.Messages {
			key = strings.TrimSpace(key)
			if key == "" {
				return nil, fmt.Errorf("catalog %s: message key cannot be blank", path)
			}
			if strings.Contains(value, "%") {
				return nil, fmt.Errorf("catalog %s: message %q must not contain printf verbs", path, key)
			}
			if _, exists := messages[key]; exists {
				return nil, fmt.Errorf("catalog %s: duplicate key %q in locale %q", path, key, locale)
			}
			messages[key] = value
		}
	}

	if _, ok := byLocale[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	locales := make([]string, 0, len(byLocale))
	for locale := range byLocale {
		if locale != BaseLocale {
			locales = append(locales, locale)
		}
	}
	sort.Strings(locales)
	locales = append([]string{BaseLocale}, locales...)

	base := NewCatalog(BaseLocale, byLocale[BaseLocale])
	out := []*Catalog{base}
	for _, locale := range locales[1:] {
		cat := NewCatalog(locale, byLocale[locale])
		cat.base = base
		out = append(out, cat)
	}
	return out, nil
}

// GetCatalog returns the catalog that best matches the given locale.
// Falls back to en-US if no loaded locale matches.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}
	if cat, ok := lookupCatalog(requested); ok {
		return cat
	}

	tag, err := language.Parse(requested)
	if err != nil {
		cat, _ := lookupCatalog(BaseLocale)
		return cat
	}
	_, index, confidence := matcher.Match(tag)
	resolved := BaseLocale
	if confidence != language.No && index < len(supported) {
		resolved = supported[index]
	}
	cat, _ := lookupCatalog(resolved)
	return cat
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the base locale and then to the error code itself when no
// template is found. Templates are always executed, so variables without
// metadata render as "<no value>".
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.lookup(code)
	if !ok && c.base != nil {
		tmpl, ok = c.base.lookup(code)
	}
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

func (c *Catalog) lookup(code Code) (string, bool) {
	if _, ok := c.messages[code]; !ok {
		return "", false
	}
	return c.printer.Sprintf(code), true
}

// RegisterCatalog registers a catalog for the given locale, replacing any
// embedded one. Intended for init or single-threaded test setup.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a catalog with the given locale and messages backed by a
// private x/text message catalog.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	tag := language.Make(locale)
	builder := catalog.NewBuilder(catalog.Fallback(tag))
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
		_ = builder.SetString(tag, key, value)
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
		printer:  message.NewPrinter(tag, message.Catalog(builder)),
	}
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}
