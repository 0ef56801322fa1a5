package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownFormat is returned for a format name or file extension that is not recognized
	ErrUnknownFormat = errors.New("unknown request document format")

	// ErrInvalidDocument is returned when a document decodes but does not describe a request
	ErrInvalidDocument = errors.New("invalid request document")
)

// Format is the encoding of a request document
type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ParseFormat accepts "", "auto", "json", "yaml" and "yml"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatAuto, fmt.Errorf("%q: %w", s, ErrUnknownFormat)
}

// zstdMagic starts every zstd frame
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ReadFile decodes the document at path. With FormatAuto the format is taken
// from the extension (".zst" is looked through) and then from the content.
func ReadFile(path string, format Format) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if format == FormatAuto {
		format = formatFromExt(path)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Read decodes a document from r
func Read(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

// Decode decodes a JSON or YAML document, decompressing it first when it is zstd-framed
func Decode(data []byte, format Format) (*Document, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing: %w", err)
		}
	}

	if format == FormatAuto {
		format = sniff(data)
	}

	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: json: %v", ErrInvalidDocument, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
			}
			return nil, fmt.Errorf("%w: yaml: %v", ErrInvalidDocument, err)
		}
	default:
		return nil, fmt.Errorf("format %d: %w", format, ErrUnknownFormat)
	}
	return &doc, nil
}

// sniff treats anything starting with '{' as JSON; YAML is a superset for the rest
func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

func formatFromExt(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	switch ext {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}
