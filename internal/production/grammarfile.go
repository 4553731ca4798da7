// Package production connects the engine to the outside world: grammar files
// in several encodings, SVG output and file watching.
package production

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/primitives"
)

// Encoding is a grammar file encoding.
type Encoding string

const (
	EncodingText Encoding = "text"
	EncodingYAML Encoding = "yaml"
	EncodingJSON Encoding = "json"
)

// ParseEncoding accepts "text", "yaml" or "json" (and "yml", "lsys", "txt").
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "text", "txt", "lsys", "":
		return EncodingText, nil
	case "yaml", "yml":
		return EncodingYAML, nil
	case "json":
		return EncodingJSON, nil
	}
	return "", fmt.Errorf("unknown encoding %q", s)
}

// EncodingFor picks the encoding from a file extension; anything that is not
// YAML or JSON is read as text.
func EncodingFor(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	case ".json":
		return EncodingJSON
	}
	return EncodingText
}

// GrammarName derives a registry name from a file path: the base name
// without its extension.
func GrammarName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DecodeGrammar reads a grammar in the given encoding.
func DecodeGrammar(r io.Reader, enc Encoding) (*lsystemx.Grammar, error) {
	var cfg primitives.GrammarConfig
	switch enc {
	case EncodingText:
		return lsystemx.Parse(r)
	case EncodingYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yaml decode: %w", err)
		}
	case EncodingJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("json decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown encoding %q", enc)
	}
	return cfg.Grammar()
}

// LoadGrammar reads the grammar at path, choosing the decoder by extension.
func LoadGrammar(path string) (*lsystemx.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	g, err := DecodeGrammar(bytes.NewReader(data), EncodingFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// EncodeGrammar writes g in the given encoding. name is recorded by the
// document encodings and ignored by text.
func EncodeGrammar(w io.Writer, g *lsystemx.Grammar, name string, enc Encoding) error {
	if enc == EncodingText {
		return g.Format(w)
	}
	cfg, err := primitives.FromGrammar(name, g)
	if err != nil {
		return err
	}
	switch enc {
	case EncodingYAML:
		ye := yaml.NewEncoder(w)
		ye.SetIndent(2)
		if err := ye.Encode(cfg); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return ye.Close()
	case EncodingJSON:
		je := json.NewEncoder(w)
		je.SetIndent("", "  ")
		if err := je.Encode(cfg); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown encoding %q", enc)
}

// SaveGrammar writes g to path, choosing the encoding by extension.
func SaveGrammar(path string, g *lsystemx.Grammar) error {
	var buf bytes.Buffer
	if err := EncodeGrammar(&buf, g, GrammarName(path), EncodingFor(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
