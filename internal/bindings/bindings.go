// Package bindings exports client bindings for the registered procedures:
// a JSON Schema and a valibot schema per request or record type, and a
// procedures.json manifest. The files are generated from the same rule
// tables the server validates with, so clients can mirror the checks.
package bindings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/deppfellow/breezi/internal/rpc"
	"github.com/deppfellow/breezi/internal/validation"
)

// ManifestFile is the name of the procedure manifest.
const ManifestFile = "procedures.json"

// ProcedureInfo describes one procedure in the manifest.
type ProcedureInfo struct {
	Name   string   `json:"name"`
	Kind   rpc.Kind `json:"kind"`
	Input  string   `json:"input"`
	Output string   `json:"output"`
	Path   string   `json:"path"`
}

// Manifest lists procedures sorted by name.
func Manifest(procedures []rpc.Procedure) []ProcedureInfo {
	out := make([]ProcedureInfo, 0, len(procedures))
	for _, p := range procedures {
		out = append(out, ProcedureInfo{
			Name:   p.Name(),
			Kind:   p.Kind(),
			Input:  p.Input().Name,
			Output: p.Output(),
			Path:   "/rpc/" + p.Name(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Exporter writes bindings into a directory.
type Exporter struct {
	dir      string
	patterns *validation.PatternCache
	logger   *zerolog.Logger
}

// NewExporter returns an exporter writing into dir.
func NewExporter(dir string, patterns *validation.PatternCache, logger *zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, patterns: patterns, logger: logger}
}

// Export writes the manifest plus a schema pair for every procedure input
// and every extra record type. It returns the written file paths.
func (e *Exporter) Export(procedures []rpc.Procedure, records ...validation.Descriptor) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bindings directory: %w", err)
	}

	descriptors := make(map[string]validation.Descriptor)
	for _, p := range procedures {
		d := p.Input()
		descriptors[d.Name] = d
	}
	for _, d := range records {
		descriptors[d.Name] = d
	}

	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		d := descriptors[name]
		base := FileBase(name)

		schema, err := json.MarshalIndent(JSONSchema(d, e.patterns), "", "  ")
		if err != nil {
			return written, fmt.Errorf("marshal %s schema: %w", name, err)
		}

		path, err := e.write(base+".schema.json", schema)
		if err != nil {
			return written, err
		}
		written = append(written, path)

		path, err = e.write(base+".schema.ts", []byte(Valibot(d, e.patterns)))
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	manifest, err := json.MarshalIndent(Manifest(procedures), "", "  ")
	if err != nil {
		return written, fmt.Errorf("marshal manifest: %w", err)
	}
	path, err := e.write(ManifestFile, manifest)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	e.logger.Info().
		Str("dir", e.dir).
		Int("files", len(written)).
		Msg("generated bindings")

	return written, nil
}

func (e *Exporter) write(name string, content []byte) (string, error) {
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, append(content, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// FileBase turns a type name into a file name base: "User" becomes "user"
// and "UserRegistration" becomes "user-registration".
func FileBase(typeName string) string {
	var b strings.Builder
	runes := []rune(typeName)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
