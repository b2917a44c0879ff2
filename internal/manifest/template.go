package manifest

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/paramkit/internal/params"
	"github.com/specialistvlad/paramkit/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// WriteTemplate writes a values file for s. Every parameter gets a comment
// with its type and description; parameters with a default are set to it,
// the others to null.
func WriteTemplate(w io.Writer, s *schema.Schema) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for name, field := range s.Fields() {
		body.AppendUnstructuredTokens(commentTokens(describeField(field)))

		val := cty.NullVal(cty.DynamicPseudoType)
		if def, ok := field.Descriptor.Default(); ok {
			cv, err := nativeToCty(def)
			if err != nil {
				return fmt.Errorf("param %q: %w", name, err)
			}
			val = cv
		}
		body.SetAttributeValue(name, val)
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteValues writes the contents of set as a values file.
func WriteValues(w io.Writer, set *params.Set) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for name, v := range set.All() {
		cv, err := nativeToCty(v)
		if err != nil {
			return fmt.Errorf("param %q: %w", name, err)
		}
		body.SetAttributeValue(name, cv)
	}
	_, err := f.WriteTo(w)
	return err
}

func describeField(f schema.Field) string {
	parts := []string{f.Descriptor.String()}
	if f.Descriptor.Mandatory() {
		parts = append(parts, "mandatory")
	}
	text := strings.Join(parts, ", ")
	if f.Description != "" {
		text += ": " + f.Description
	}
	return text
}

func commentTokens(text string) hclwrite.Tokens {
	return hclwrite.Tokens{{
		Type:  hclsyntax.TokenComment,
		Bytes: []byte("# " + text + "\n"),
	}}
}
