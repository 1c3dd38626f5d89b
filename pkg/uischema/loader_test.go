package uischema

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadFS_ReadsJSONAndYAML(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(fstest.MapFS{
		"a.json":          {Data: []byte(`{"forms":{"signup":{"fields":{" address . zip ":{"label":"Zip"}}}}}`)},
		"nested/b.yml":    {Data: []byte("forms:\n  contact:\n    title: Contact\n")},
		"notes/README.md": {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	signup, ok := store.Form("signup")
	if !ok {
		t.Fatalf("signup overlay missing")
	}
	if signup.Source != "a.json" || signup.Fields["address.zip"].Label != "Zip" {
		t.Fatalf("unexpected signup overlay %+v", signup)
	}
	contact, ok := store.Form("contact")
	if !ok || contact.Title != "Contact" {
		t.Fatalf("contact overlay missing: %+v", contact)
	}
	if store.Empty() {
		t.Fatalf("store should not be empty")
	}
}

func TestLoadFS_NilAndEmpty(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("nil fs should give an empty store: %v", err)
	}
	var missing *Store
	if _, ok := missing.Form("x"); ok || !missing.Empty() {
		t.Fatalf("nil store should be empty")
	}
}

func TestLoadFS_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		files  fstest.MapFS
		substr string
	}{
		{name: "empty file", files: fstest.MapFS{"a.json": {Data: []byte("  ")}}, substr: "is empty"},
		{name: "invalid document", files: fstest.MapFS{"a.yaml": {Data: []byte("forms: [")}}, substr: "invalid JSON or YAML"},
		{name: "duplicate form", files: fstest.MapFS{
			"a.json": {Data: []byte(`{"forms":{"signup":{}}}`)},
			"b.json": {Data: []byte(`{"forms":{"signup":{}}}`)},
		}, substr: `duplicate form "signup"`},
		{name: "duplicate path", files: fstest.MapFS{
			"a.json": {Data: []byte(`{"forms":{"signup":{"fields":{"a.b":{},"a . b":{}}}}}`)},
		}, substr: "duplicate field path"},
		{name: "empty path", files: fstest.MapFS{
			"a.json": {Data: []byte(`{"forms":{"signup":{"fields":{" . ":{}}}}}`)},
		}, substr: "normalises to empty path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFS(tt.files)
			if err == nil || !strings.Contains(err.Error(), tt.substr) {
				t.Fatalf("expected error containing %q, got %v", tt.substr, err)
			}
		})
	}
}

func TestNormalizeFieldPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"a.b":     "a.b",
		" a . b ": "a.b",
		"a..b":    "a.b",
		"":        "",
		".":       "",
	}
	for in, want := range cases {
		if got := NormalizeFieldPath(in); got != want {
			t.Fatalf("NormalizeFieldPath(%q) = %q, want %q", in, got, want)
		}
	}
}
