// Package testsupport holds fixture and golden helpers shared by package
// tests. Goldens are rewritten when UPDATE_GOLDENS is set.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-formgen-kendo/pkg/model"
)

// MustParseForm reads a JSON or YAML form document fixture.
func MustParseForm(t *testing.T, path string) pkgmodel.FormModel {
	t.Helper()

	form, err := LoadForm(path)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// LoadForm parses a form document fixture, returning an error for callers
// managing setup outside of *testing.T.
func LoadForm(path string) (pkgmodel.FormModel, error) {
	if path == "" {
		return pkgmodel.FormModel{}, errors.New("testsupport: form path is required")
	}
	form, err := pkgmodel.ParseFile(path)
	if err != nil {
		return pkgmodel.FormModel{}, fmt.Errorf("testsupport: parse form: %w", err)
	}
	return form, nil
}

// MustReadFile reads a fixture and returns its raw bytes.
func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// MustLoadGolden decodes a JSON golden into a value of type T.
func MustLoadGolden[T any](t *testing.T, path string) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(MustReadFile(t, path), &out); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
	return out
}

// AssertGolden refreshes the golden at path when requested, then compares it
// with got.
func AssertGolden[T any](t *testing.T, path string, got T, opts ...cmp.Option) {
	t.Helper()

	WriteGolden(t, path, got)
	want := MustLoadGolden[T](t, path)
	if diff := CompareGolden(want, got, opts...); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
