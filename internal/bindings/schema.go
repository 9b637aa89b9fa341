package bindings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/deppfellow/breezi/internal/validation"
)

// Draft is the JSON Schema dialect of exported schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema converts a rule table into a JSON Schema object. Every field is
// a required string; length rules become minLength/maxLength, pattern rules
// become pattern and email rules become format "email".
func JSONSchema(d validation.Descriptor, patterns *validation.PatternCache) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Schema:     Draft,
		Title:      d.Name,
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(d.Fields)),
	}

	for _, f := range d.Fields {
		prop := &jsonschema.Schema{Type: "string"}
		for _, r := range f.Rules {
			switch r.Kind {
			case validation.KindLength:
				lo, hi := r.Min, r.Max
				prop.MinLength = &lo
				prop.MaxLength = &hi
			case validation.KindEmail:
				prop.Format = "email"
			case validation.KindPattern:
				if re, ok := patterns.Get(r.Pattern); ok {
					prop.Pattern = re.String()
				}
			}
		}
		schema.Properties[f.Name] = prop
		schema.Required = append(schema.Required, f.Name)
	}
	sort.Strings(schema.Required)

	return schema
}

// Valibot renders a rule table as a TypeScript module exporting a valibot
// object schema. Fields are emitted in name order.
func Valibot(d validation.Descriptor, patterns *validation.PatternCache) string {
	fields := make([]validation.FieldDescriptor, len(d.Fields))
	copy(fields, d.Fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	entries := make([]string, 0, len(fields))
	for _, f := range fields {
		entries = append(entries, fmt.Sprintf("%q: %s", f.Name, valibotField(f.Rules, patterns)))
	}

	return "import * as v from 'valibot'\n\nexport const schema = v.object({ " + strings.Join(entries, ", ") + " })"
}

func valibotField(rules []validation.Rule, patterns *validation.PatternCache) string {
	if len(rules) == 0 {
		return "v.string()"
	}

	parts := []string{"v.string()"}
	for _, r := range rules {
		switch r.Kind {
		case validation.KindLength:
			parts = append(parts, fmt.Sprintf("v.minLength(%d)", r.Min), fmt.Sprintf("v.maxLength(%d)", r.Max))
		case validation.KindEmail:
			parts = append(parts, "v.email()")
		case validation.KindPattern:
			if re, ok := patterns.Get(r.Pattern); ok {
				parts = append(parts, "v.regex(/"+strings.ReplaceAll(re.String(), "/", `\/`)+"/)")
			}
		}
	}
	return "v.pipe(" + strings.Join(parts, ", ") + ")"
}
