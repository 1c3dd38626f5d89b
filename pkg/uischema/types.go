package uischema

// Store keeps the parsed overlays keyed by form id. It is safe for concurrent
// readers when treated as immutable after construction.
type Store struct {
	forms map[string]Form
}

// Form describes the overlay for one form id.
type Form struct {
	ID          string
	Source      string
	Title       string
	Description string
	Metadata    map[string]string
	Fields      map[string]FieldConfig
}

// FieldConfig customises a single field addressed by dotted path.
type FieldConfig struct {
	Order       *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Hint        string            `json:"hint,omitempty" yaml:"hint,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Widget      string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	Disabled    *bool             `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty" yaml:"uiHints,omitempty"`
}
