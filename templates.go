package formkendo

import (
	"io/fs"

	"github.com/goliatone/go-formgen-kendo/pkg/renderers/kendo"
)

// EmbeddedTemplates exposes the built-in Kendo renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return kendo.TemplatesFS()
}
