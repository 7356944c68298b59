package serializer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/vitalk/apify/jsonutil"
)

// JSON is the built-in serializer for application/json and
// application/javascript.
func JSON(v any) ([]byte, error) {
	return jsonutil.Marshal(v)
}

// Debug returns the serializer backing the text/html debug view. The payload
// is pretty-printed and rendered into tmpl, which receives {{.Dump}} with the
// indented JSON form of the payload.
func Debug(tmpl *template.Template) Func {
	return func(v any) ([]byte, error) {
		dump, err := jsonutil.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("serializer: dump payload: %w", err)
		}

		var buf bytes.Buffer
		data := map[string]any{"Dump": string(dump)}
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("serializer: render debug template: %w", err)
		}
		return buf.Bytes(), nil
	}
}
