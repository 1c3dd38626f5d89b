package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyDocument is returned when a form document has no content.
	ErrEmptyDocument = errors.New("model: document is empty")
	// ErrUnknownKind is returned when a field declares an unsupported type.
	ErrUnknownKind = errors.New("model: unknown field type")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func specValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

type documentSpec struct {
	ID          string            `mapstructure:"id" validate:"required"`
	Title       string            `mapstructure:"title"`
	Description string            `mapstructure:"description"`
	Metadata    map[string]string `mapstructure:"metadata"`
	Fields      []map[string]any  `mapstructure:"fields"`
}

// fieldSpec is the union of every variant attribute as authored in documents.
type fieldSpec struct {
	Type          string            `mapstructure:"type" validate:"required"`
	ID            string            `mapstructure:"id" validate:"required"`
	Label         string            `mapstructure:"label"`
	Hint          string            `mapstructure:"hint"`
	Disabled      bool              `mapstructure:"disabled"`
	Value         any               `mapstructure:"value"`
	Validators    map[string]any    `mapstructure:"validators"`
	ErrorMessages map[string]string `mapstructure:"errorMessages"`
	UIHints       map[string]string `mapstructure:"uiHints"`

	Inline      bool         `mapstructure:"inline"`
	Format      string       `mapstructure:"format"`
	Placeholder string       `mapstructure:"placeholder"`
	Min         any          `mapstructure:"min"`
	Max         any          `mapstructure:"max"`
	Step        *float64     `mapstructure:"step" validate:"omitempty,gt=0"`
	URL         string       `mapstructure:"url"`
	Multiple    bool         `mapstructure:"multiple"`
	Accept      []string     `mapstructure:"accept"`
	AutoUpload  bool         `mapstructure:"autoUpload"`
	InputType   string       `mapstructure:"inputType"`
	List        []string     `mapstructure:"list"`
	Mask        string       `mapstructure:"mask"`
	MaxLength   int          `mapstructure:"maxLength" validate:"gte=0"`
	Rows        int          `mapstructure:"rows" validate:"gte=0"`
	Cols        int          `mapstructure:"cols" validate:"gte=0"`
	Vertical    bool         `mapstructure:"vertical"`
	OnLabel     string       `mapstructure:"onLabel"`
	OffLabel    string       `mapstructure:"offLabel"`
	Options     []optionSpec `mapstructure:"options" validate:"dive"`

	Group        []map[string]any `mapstructure:"group"`
	InitialCount int              `mapstructure:"initialCount" validate:"gte=0"`
}

type optionSpec struct {
	Label    string `mapstructure:"label"`
	Value    any    `mapstructure:"value"`
	Disabled bool   `mapstructure:"disabled"`
}

// Parse decodes a JSON or YAML form document.
func Parse(data []byte) (FormModel, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return FormModel{}, ErrEmptyDocument
	}

	raw, err := decodeRaw(data)
	if err != nil {
		return FormModel{}, err
	}

	var doc documentSpec
	if err := decodeMap(raw, &doc); err != nil {
		return FormModel{}, fmt.Errorf("model: decode document: %w", err)
	}
	doc.ID = strings.TrimSpace(doc.ID)
	if err := specValidator().Struct(doc); err != nil {
		return FormModel{}, fmt.Errorf("model: invalid document: %w", err)
	}

	fields, err := buildFields(doc.Fields, "")
	if err != nil {
		return FormModel{}, err
	}

	return FormModel{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Fields:      fields,
		Metadata:    doc.Metadata,
	}, nil
}

// ParseFile reads and decodes the form document at path.
func ParseFile(path string) (FormModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormModel{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	form, err := Parse(data)
	if err != nil {
		return FormModel{}, fmt.Errorf("%s: %w", path, err)
	}
	return form, nil
}

// LoadFS walks fsys and decodes every JSON/YAML form document, keyed by form
// id. Duplicate ids across files are rejected.
func LoadFS(fsys fs.FS) (map[string]FormModel, error) {
	forms := make(map[string]FormModel)
	if fsys == nil {
		return forms, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDocumentFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("model: read %s: %w", path, err)
		}
		form, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, exists := forms[form.ID]; exists {
			return fmt.Errorf("model: duplicate form %q (file %s)", form.ID, path)
		}
		forms[form.ID] = form
		return nil
	})
	if err != nil {
		return nil, err
	}
	return forms, nil
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func decodeRaw(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}
	raw = nil
	if err := yaml.Unmarshal(data, &raw); err == nil && raw != nil {
		return raw, nil
	}
	return nil, errors.New("model: invalid JSON or YAML document")
}

func decodeMap(input any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func buildFields(raw []map[string]any, prefix string) ([]FieldModel, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	fields := make([]FieldModel, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for idx, entry := range raw {
		field, err := buildField(entry, prefix, idx)
		if err != nil {
			return nil, err
		}
		id := field.Common().ID
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("model: duplicate field id %q", JoinPath(prefix, id))
		}
		seen[id] = struct{}{}
		fields = append(fields, field)
	}
	return fields, nil
}

func buildField(raw map[string]any, prefix string, idx int) (FieldModel, error) {
	var spec fieldSpec
	if err := decodeMap(raw, &spec); err != nil {
		return nil, fmt.Errorf("model: decode field %s: %w", fieldRef(prefix, raw, idx), err)
	}
	spec.ID = strings.TrimSpace(spec.ID)
	if err := specValidator().Struct(spec); err != nil {
		return nil, fmt.Errorf("model: invalid field %s: %w", fieldRef(prefix, raw, idx), err)
	}

	kind, ok := ParseKind(spec.Type)
	if !ok {
		return nil, fmt.Errorf("%w %q (field %s)", ErrUnknownKind, spec.Type, fieldRef(prefix, raw, idx))
	}

	base := Base{
		ID:            spec.ID,
		Label:         spec.Label,
		Hint:          spec.Hint,
		Disabled:      spec.Disabled,
		Value:         spec.Value,
		Validators:    spec.Validators,
		ErrorMessages: spec.ErrorMessages,
		UIHints:       spec.UIHints,
	}
	path := JoinPath(prefix, base.ID)

	switch kind {
	case KindCheckbox:
		return &Checkbox{Base: base}, nil
	case KindCheckboxGroup:
		children, err := buildFields(spec.Group, path)
		if err != nil {
			return nil, err
		}
		members := make([]*Checkbox, 0, len(children))
		for _, child := range children {
			member, ok := child.(*Checkbox)
			if !ok {
				return nil, fmt.Errorf("model: checkbox group %s accepts only CHECKBOX members, got %s", path, child.Kind())
			}
			members = append(members, member)
		}
		return &CheckboxGroup{Base: base, Group: members}, nil
	case KindDatePicker:
		return &DatePicker{
			Base:        base,
			Inline:      spec.Inline,
			Format:      spec.Format,
			Min:         stringify(spec.Min),
			Max:         stringify(spec.Max),
			Placeholder: spec.Placeholder,
		}, nil
	case KindEditor:
		return &Editor{Base: base}, nil
	case KindUpload:
		return &Upload{
			Base:       base,
			URL:        spec.URL,
			Multiple:   spec.Multiple,
			Accept:     spec.Accept,
			AutoUpload: spec.AutoUpload,
		}, nil
	case KindArray:
		children, err := buildFields(spec.Group, path)
		if err != nil {
			return nil, err
		}
		return &Array{Base: base, Group: children, InitialCount: spec.InitialCount}, nil
	case KindGroup:
		children, err := buildFields(spec.Group, path)
		if err != nil {
			return nil, err
		}
		return &Group{Base: base, Group: children}, nil
	case KindInput:
		lower, err := optionalFloat(spec.Min)
		if err != nil {
			return nil, fmt.Errorf("model: field %s min: %w", path, err)
		}
		upper, err := optionalFloat(spec.Max)
		if err != nil {
			return nil, fmt.Errorf("model: field %s max: %w", path, err)
		}
		return &Input{
			Base:        base,
			InputType:   strings.TrimSpace(spec.InputType),
			List:        spec.List,
			Mask:        spec.Mask,
			Placeholder: spec.Placeholder,
			MaxLength:   spec.MaxLength,
			Min:         lower,
			Max:         upper,
			Step:        spec.Step,
		}, nil
	case KindRadioGroup:
		return &RadioGroup{Base: base, Options: buildOptions(spec.Options)}, nil
	case KindSelect:
		return &Select{
			Base:        base,
			Multiple:    spec.Multiple,
			Options:     buildOptions(spec.Options),
			Placeholder: spec.Placeholder,
		}, nil
	case KindSlider:
		slider := &Slider{Base: base, Max: 10, Step: 1, Vertical: spec.Vertical}
		if lower, err := optionalFloat(spec.Min); err != nil {
			return nil, fmt.Errorf("model: field %s min: %w", path, err)
		} else if lower != nil {
			slider.Min = *lower
		}
		if upper, err := optionalFloat(spec.Max); err != nil {
			return nil, fmt.Errorf("model: field %s max: %w", path, err)
		} else if upper != nil {
			slider.Max = *upper
		}
		if spec.Step != nil {
			slider.Step = *spec.Step
		}
		return slider, nil
	case KindSwitch:
		return &Switch{Base: base, OnLabel: spec.OnLabel, OffLabel: spec.OffLabel}, nil
	case KindTextArea:
		return &TextArea{
			Base:        base,
			Rows:        spec.Rows,
			Cols:        spec.Cols,
			MaxLength:   spec.MaxLength,
			Placeholder: spec.Placeholder,
		}, nil
	case KindTimePicker:
		return &TimePicker{Base: base, Format: spec.Format, Placeholder: spec.Placeholder}, nil
	}
	return nil, fmt.Errorf("%w %q (field %s)", ErrUnknownKind, spec.Type, path)
}

func buildOptions(specs []optionSpec) []Option {
	if len(specs) == 0 {
		return nil
	}
	out := make([]Option, 0, len(specs))
	for _, spec := range specs {
		out = append(out, Option{Label: spec.Label, Value: spec.Value, Disabled: spec.Disabled})
	}
	return out
}

func optionalFloat(value any) (*float64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case float32:
		f := float64(v)
		return &f, nil
	case int:
		f := float64(v)
		return &f, nil
	case int64:
		f := float64(v)
		return &f, nil
	case uint64:
		f := float64(v)
		return &f, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, err
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("unsupported numeric value %v", value)
	}
}

func fieldRef(prefix string, raw map[string]any, idx int) string {
	if id, ok := raw["id"].(string); ok && strings.TrimSpace(id) != "" {
		return JoinPath(prefix, strings.TrimSpace(id))
	}
	return JoinPath(prefix, "#"+strconv.Itoa(idx))
}
