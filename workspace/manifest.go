package workspace

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultVersion is assumed when a manifest omits the version field.
const DefaultVersion = "0.0.0"

// manifest is the parsed, validated view of a manifest file. Every supported
// build system stores its manifest as JSON; only the filename convention
// differs per plugin.
type manifest struct {
	Name       string
	Version    string
	Private    bool
	Workspaces []string
}

// rawManifest is the JSON shape. Parsing goes through an explicit typed
// decode so a shape mismatch surfaces as a structured error, never as a
// downstream panic.
type rawManifest struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Private    bool     `json:"private"`
	Workspaces []string `json:"workspaces"`
}

// parseManifest validates and decodes manifest content. The version field is
// optional and defaults; the name field is validated by callers because a
// missing name is fatal for children but handled differently at probe time.
func parseManifest(data []byte) (manifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return manifest{}, fmt.Errorf("parse manifest: %w", err)
	}

	m := manifest{
		Name:       strings.TrimSpace(raw.Name),
		Version:    strings.TrimSpace(raw.Version),
		Private:    raw.Private,
		Workspaces: raw.Workspaces,
	}
	if m.Version == "" {
		m.Version = DefaultVersion
	}
	return m, nil
}

// rewriteVersion replaces the manifest's top-level version value in place,
// preserving surrounding formatting and the original trailing-newline
// presence. Only the value between the quotes is replaced; everything around
// it stays byte-identical so rewrites produce minimal, deterministic diffs.
func rewriteVersion(data []byte, newVersion string) ([]byte, error) {
	start, end, ok := findTopLevelVersion(data)
	if !ok {
		return nil, ErrNoVersionField
	}

	var out []byte
	out = append(out, data[:start]...)
	out = append(out, newVersion...)
	out = append(out, data[end:]...)
	return out, nil
}

// findTopLevelVersion locates the value of the manifest's top-level version
// field, returning the byte range between its quotes. Nesting depth is
// tracked so a "version" key inside a nested block (a config or dependency
// object) is never mistaken for the manifest version.
func findTopLevelVersion(data []byte) (start, end int, ok bool) {
	depth := 0
	i := 0
	for i < len(data) {
		switch data[i] {
		case '{', '[':
			depth++
			i++
		case '}', ']':
			depth--
			i++
		case '"':
			key, next, valid := scanString(data, i)
			if !valid {
				return 0, 0, false
			}
			i = next
			if depth != 1 || key != "version" {
				continue
			}
			j := skipSpace(data, i)
			if j >= len(data) || data[j] != ':' {
				continue // a string value, not a key
			}
			j = skipSpace(data, j+1)
			if j >= len(data) || data[j] != '"' {
				return 0, 0, false // version present but not a string
			}
			_, valueEnd, valid := scanString(data, j)
			if !valid {
				return 0, 0, false
			}
			return j + 1, valueEnd - 1, true
		default:
			i++
		}
	}
	return 0, 0, false
}

// scanString consumes the JSON string starting at the opening quote and
// returns its raw content plus the index past the closing quote.
func scanString(data []byte, i int) (string, int, bool) {
	i++
	start := i
	for i < len(data) {
		switch data[i] {
		case '\\':
			i += 2
		case '"':
			return string(data[start:i]), i + 1, true
		default:
			i++
		}
	}
	return "", 0, false
}

func skipSpace(data []byte, i int) int {
	for i < len(data) {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}
