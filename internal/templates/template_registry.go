package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerExtractorTemplates()
	registry.registerFileTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerExtractorTemplates registers the Extract method bodies
func (tr *TemplateRegistry) registerExtractorTemplates() {
	// Field by field, in declaration order. A newtype extracts into a local
	// holding its underlying type.
	tr.templates["direct"] = `// Extract implements extract.Extractor
func (x *{{.Receiver}}) Extract(ctx context.Context, r *http.Request, state any) error {
{{- if not .Newtype}}
	var out {{.Receiver}}
{{- end}}
{{- range .Fields}}
{{- if .ViaType}}
	var {{.ViaVar}} {{.ViaType}}
	if err := extract.Into(ctx, r, state, &{{.ViaVar}}); err != nil {
		return {{.Reject}}
	}
	{{.Target}} = {{.ViaVar}}.Inner()
{{- else if .Pointer}}
	{{.Target}} {{if .Declare}}:={{else}}={{end}} new({{.Elem}})
	if err := extract.Into(ctx, r, state, {{.Target}}); err != nil {
		return {{.Reject}}
	}
{{- else}}
{{- if .Declare}}
	var {{.Target}} {{.Type}}
{{- end}}
	if err := extract.Into(ctx, r, state, &{{.Target}}); err != nil {
		return {{.Reject}}
	}
{{- end}}
{{- end}}
	*x = {{.Result}}
	return nil
}
`

	// Extract the via type, then convert it into a fresh value. The receiver
	// is only written once conversion succeeded.
	tr.templates["delegated"] = `// Extract implements extract.Extractor
func (x *{{.Receiver}}) Extract(ctx context.Context, r *http.Request, state any) error {
{{- if .ViaPointer}}
	via := new({{.ViaElem}})
	if err := extract.Into(ctx, r, state, via); err != nil {
{{- else}}
	var via {{.ViaType}}
	if err := extract.Into(ctx, r, state, &via); err != nil {
{{- end}}
		return {{.ViaReject}}
	}
{{- if .Convert}}
	out, err := {{.Convert}}(via)
	if err != nil {
		return {{.ConvertReject}}
	}
	*x = out
{{- else}}
	var out {{.Receiver}}
	if err := out.FromVia(via); err != nil {
		return {{.ConvertReject}}
	}
	*x = out
{{- end}}
	return nil
}
`

	// Compile-time checks, only possible for non-generic receivers
	tr.templates["assertions"] = `{{- if not .Generic}}
var _ extract.Extractor = (*{{.TypeName}})(nil)
{{- if .ConverterVia}}
var _ extract.Converter[{{.ConverterVia}}] = (*{{.TypeName}})(nil)
{{- end}}
{{- end}}
`
}

// registerFileTemplates registers the generated file layout
func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates["file"] = `// Code generated by extractgen. DO NOT EDIT.

package {{.PackageName}}

{{.Imports}}
{{- range .Implementations}}
{{.Source}}
{{- end}}
`
}
