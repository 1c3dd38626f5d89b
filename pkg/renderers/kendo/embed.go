package kendo

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/widgets/*.tmpl
var embeddedTemplates embed.FS

// StylesheetAsset is the theme asset key resolved for the Kendo stylesheet
// link.
const StylesheetAsset = "kendo.stylesheet"

// TemplatesFS exposes the embedded template bundle so callers can copy or
// override individual widget templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
