package render

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Partial keys looked up in RendererConfig.Partials. Widget templates are
// keyed PartialWidgetPrefix + widget name, e.g. "forms.widget.slider".
const (
	PartialForm         = "forms.form"
	PartialField        = "forms.field"
	PartialWidgetPrefix = "forms.widget."
)

// DefaultPartials maps the form and field partial keys to the embedded
// template paths.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialForm:  "templates/form.tmpl",
		PartialField: "templates/field.tmpl",
	}
}

// ThemeConfigFromSelection merges the selected manifest with its variant
// overrides into a renderer config. Variant tokens, templates and asset files
// override the manifest's; fallbacks fill partial keys neither declares.
func ThemeConfigFromSelection(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}

	assets := map[string]string{}
	prefix := ""
	if manifest := selection.Manifest; manifest != nil {
		if cfg.Theme == "" {
			cfg.Theme = manifest.Name
		}
		mergeStrings(cfg.Tokens, manifest.Tokens)
		mergeStrings(cfg.Partials, manifest.Templates)
		mergeStrings(assets, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			mergeStrings(cfg.Tokens, variant.Tokens)
			mergeStrings(cfg.Partials, variant.Templates)
			mergeStrings(assets, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars[cssVarName(key)] = value
	}
	cfg.AssetURL = assetResolver(prefix, assets)
	return cfg
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func cssVarName(token string) string {
	name := strings.NewReplacer(".", "-", "_", "-", " ", "-").Replace(strings.TrimSpace(token))
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || strings.HasPrefix(file, "/") {
			return file
		}
		if prefix == "" {
			return file
		}
		if strings.HasPrefix(prefix, "http://") || strings.HasPrefix(prefix, "https://") {
			return strings.TrimRight(prefix, "/") + "/" + file
		}
		return path.Join(prefix, file)
	}
}

// CSSVarsStyle renders CSS variables as a sorted inline style declaration.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ") + ";"
}

// ManifestSelector resolves themes from an in-memory set of manifests. It
// satisfies theme.ThemeSelector.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests; the first becomes the default
// theme.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{manifests: map[string]*theme.Manifest{}}
	for _, manifest := range manifests {
		if err := s.Add(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers manifest. Duplicate names are rejected.
func (s *ManifestSelector) Add(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return nil
}

// WithDefaults sets the theme and variant used when Select receives empty
// names.
func (s *ManifestSelector) WithDefaults(name, variant string) *ManifestSelector {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.defaultTheme = name
	}
	s.defaultVariant = variant
	return s
}

// Select resolves name and variant, applying defaults for empty values.
// Unknown variants are an error; the empty variant selects the base theme.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
