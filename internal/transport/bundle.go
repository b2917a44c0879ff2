package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/specialistvlad/paramkit/internal/params"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the bundle layout version written by Encode.
const FormatVersion = 1

// Bundle is a parameter set in transit.
type Bundle struct {
	ID     uuid.UUID
	Schema string
	Params params.Mapping
}

// NewBundle captures a copy of set under a fresh ID.
func NewBundle(schemaName string, set *params.Set) *Bundle {
	return &Bundle{
		ID:     uuid.New(),
		Schema: schemaName,
		Params: set.ToMapping(),
	}
}

// Set rebuilds the parameter set, bound to r, without validation. r may be
// nil.
func (b *Bundle) Set(r params.Resolver) *params.Set {
	return params.FromMapping(r, b.Params)
}

// document is the on-disk layout of a bundle.
type document struct {
	Format int       `yaml:"format"`
	ID     uuid.UUID `yaml:"id"`
	Schema string    `yaml:"schema"`
	Params yaml.Node `yaml:"params"`
}

// Encode writes b to w as a YAML document.
func Encode(w io.Writer, b *Bundle) error {
	paramsNode, err := encodeMapping(b.Params)
	if err != nil {
		return err
	}

	doc := document{
		Format: FormatVersion,
		ID:     b.ID,
		Schema: b.Schema,
		Params: *paramsNode,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	return enc.Close()
}

// Decode reads one bundle from r.
func Decode(r io.Reader) (*Bundle, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("failed to decode bundle: empty document")
		}
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}

	if doc.Format != FormatVersion {
		return nil, fmt.Errorf("unsupported bundle format %d, want %d", doc.Format, FormatVersion)
	}
	if doc.Schema == "" {
		return nil, errors.New("bundle does not name a schema")
	}

	m, err := decodeMapping(&doc.Params)
	if err != nil {
		return nil, err
	}

	return &Bundle{ID: doc.ID, Schema: doc.Schema, Params: m}, nil
}

// Marshal returns the YAML encoding of b.
func Marshal(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a bundle from data.
func Unmarshal(data []byte) (*Bundle, error) {
	return Decode(bytes.NewReader(data))
}
