package i18n

import (
	"testing"
	"testing/fstest"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog(""); got != base {
		t.Fatal("expected empty locale to resolve to en-US catalog")
	}
	if got := GetCatalog("not a locale!"); got != base {
		t.Fatal("expected unparsable locale to resolve to en-US catalog")
	}
}

func TestGetCatalogMatchesRegionlessLocale(t *testing.T) {
	cat := GetCatalog("pt")
	if cat.Locale() != "pt-BR" {
		t.Fatalf("locale = %q, want %q", cat.Locale(), "pt-BR")
	}
}

func TestFormatUsesMetadata(t *testing.T) {
	got := GetCatalog("en-US").Format("ROSTER_MEMBER_ALREADY_REGISTERED", map[string]string{"Identity": "driver-7"})
	want := "Crew member driver-7 is already registered for this event"
	if got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestAlreadyRegisteredNamesIdentity(t *testing.T) {
	metadata := map[string]string{"Identity": "gunner-3"}
	tests := []struct {
		locale string
		want   string
	}{
		{"en-US", "gunner-3 is already registered for this event"},
		{"pt-BR", "gunner-3 já está inscrito neste evento"},
	}
	for _, tt := range tests {
		if got := GetCatalog(tt.locale).Format("ROSTER_ALREADY_REGISTERED", metadata); got != tt.want {
			t.Errorf("%s Format = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestEmbeddedLocalesTranslateEveryBaseCode(t *testing.T) {
	base := GetCatalog(BaseLocale)
	for _, locale := range supported {
		cat := GetCatalog(locale)
		for code := range base.messages {
			if _, ok := cat.messages[code]; !ok {
				t.Errorf("locale %s is missing %s", locale, code)
			}
		}
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}

func TestLoadFromFSValidation(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
	}{
		{
			name:  "no files",
			files: fstest.MapFS{},
		},
		{
			name: "missing base locale",
			files: fstest.MapFS{
				"locales/pt-BR/errors.yaml": {Data: []byte("locale: pt-BR\nmessages:\n  A: \"a\"\n")},
			},
		},
		{
			name: "printf verb",
			files: fstest.MapFS{
				"locales/en-US/errors.yaml": {Data: []byte("locale: en-US\nmessages:\n  A: \"100%\"\n")},
			},
		},
		{
			name: "missing locale",
			files: fstest.MapFS{
				"locales/en-US/errors.yaml": {Data: []byte("messages:\n  A: \"a\"\n")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromFS(tt.files); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}

func TestLoadFromFSOrdersBaseLocaleFirst(t *testing.T) {
	files := fstest.MapFS{
		"locales/de-DE/errors.yaml": {Data: []byte("locale: de-DE\nmessages:\n  A: \"de\"\n")},
		"locales/en-US/errors.yaml": {Data: []byte("locale: en-US\nmessages:\n  A: \"en\"\n  B: \"only en\"\n")},
	}
	loaded, err := LoadFromFS(files)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Locale() != BaseLocale {
		t.Fatalf("loaded locales = %v, want base first", loaded)
	}
	if got := loaded[1].Format("B", nil); got != "only en" {
		t.Fatalf("Format = %q, want base fallback", got)
	}
}
