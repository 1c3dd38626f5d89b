package pongo_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formgen-kendo/pkg/render/template/pongo"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tmpl":      {Data: []byte("Hello {{ name }}!")},
		"use-global.tmpl": {Data: []byte("env={{ settings.env }}")},
		"field.tmpl":      {Data: []byte(`<label for="{{ path|kebab }}">{{ label|trim }}</label>`)},
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWritesToWriters(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	var buf bytes.Buffer
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada!" || buf.String() != got {
		t.Fatalf("unexpected output %q / %q", got, buf.String())
	}

	again, err := engine.RenderTemplate("hello.tmpl", struct {
		Name string `json:"name"`
	}{Name: "Grace"})
	if err != nil {
		t.Fatalf("render struct data: %v", err)
	}
	if again != "Hello Grace!" {
		t.Fatalf("struct data should flatten through json tags, got %q", again)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, pongo.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))
	got, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected output %q", got)
	}

	if err := engine.GlobalContext(map[string]any{"settings": map[string]any{"env": "prod"}}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	got, _ = engine.RenderTemplate("use-global", nil)
	if got != "env=prod" {
		t.Fatalf("global context not updated, got %q", got)
	}
}

func TestEngine_DefaultFilters(t *testing.T) {
	t.Parallel()

	got, err := newEngine(t).RenderTemplate("field", map[string]any{"path": "address.zip_code", "label": "  Zip  "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != `<label for="address-zip-code">Zip</label>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	err := engine.RegisterFilter("shout_test", func(input any, _ any) (any, error) {
		s, _ := input.(string)
		if s == "" {
			return nil, errors.New("empty")
		}
		return strings.ToUpper(s), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout_test", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	got, err := engine.RenderString(`{{ word|shout_test }}`, map[string]any{"word": "kendo"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "KENDO" {
		t.Fatalf("unexpected output %q", got)
	}
	if _, err := engine.RenderString(`{{ word|shout_test }}`, map[string]any{"word": ""}); err == nil {
		t.Fatalf("expected filter error to surface")
	}
}

func TestEngine_Errors(t *testing.T) {
	t.Parallel()

	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template sources")
	}
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEngine_AutoescapeEncodesBraces(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	got, err := engine.RenderString(`<p title="{{ text }}">{{ text }}</p>{{ text|safe }}`, map[string]any{
		"text": `{{ 7*7 }} <b>&</b>`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	escaped := `&#123;&#123; 7*7 &#125;&#125; &lt;b&gt;&amp;&lt;/b&gt;`
	want := `<p title="` + escaped + `">` + escaped + `</p>{{ 7*7 }} <b>&</b>`
	if got != want {
		t.Fatalf("unexpected output %q", got)
	}
}
