package serializer

import (
	_ "embed"
	"html/template"
)

//go:embed assets/apidump.html
var apidumpHTML []byte

var defaultDumpTemplate = template.Must(
	template.New("apidump").Parse(string(apidumpHTML)),
)

// DefaultDumpTemplate returns the embedded template used by the debug
// serializer when no custom template is configured.
func DefaultDumpTemplate() *template.Template {
	return defaultDumpTemplate
}
