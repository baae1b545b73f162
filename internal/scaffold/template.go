package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/lib.rs.tmpl
var templateFS embed.FS

const libTemplatePath = "templates/lib.rs.tmpl"

// TypeNamePlaceholder is the template action replaced by the derived type name.
const TypeNamePlaceholder = "{{.TypeName}}"

var libTemplate = template.Must(template.ParseFS(templateFS, libTemplatePath))

// PluginData holds the variables available to the lib.rs template.
type PluginData struct {
	Name     string // e.g., "my-plugin"
	TypeName string // Derived: MyPluginPlugin
	Crate    string // Framework crate, e.g., "quill"
}

// NewPluginData derives the template data for a project name.
func NewPluginData(name, crate string) (*PluginData, error) {
	typeName, err := PluginIdentifier(name)
	if err != nil {
		return nil, err
	}
	return &PluginData{Name: name, TypeName: typeName, Crate: crate}, nil
}

// LibTemplate returns the raw lib.rs template text.
func LibTemplate() (string, error) {
	data, err := templateFS.ReadFile(libTemplatePath)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", libTemplatePath, err)
	}
	return string(data), nil
}

// RenderLib executes the lib.rs template for data.
func RenderLib(data *PluginData) (string, error) {
	var buf bytes.Buffer
	if err := libTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", libTemplatePath, err)
	}
	return buf.String(), nil
}
