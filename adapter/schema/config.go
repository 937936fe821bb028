package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
)

// FromConfig builds a schema from a plain configuration structure, such as
// one unmarshaled from a configuration file. Every entry maps a field path
// to its capability flags:
//
//	s, err := schema.FromConfig("products", map[string]any{
//		"name":         map[string]any{"string_index": true},
//		"price.amount": map[string]any{"number_index": true, "number_facet": true},
//	})
//
// Entries may also be [FieldConfig] values directly. Unknown flag names are
// rejected.
func FromConfig(index string, config map[string]any) (*Schema, error) {
	fields := make(map[string]FieldConfig, len(config))
	for name, raw := range config {
		var fieldConfig FieldConfig
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:     "search",
			ErrorUnused: true,
			Result:      &fieldConfig,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(raw); err != nil {
			errDef := domain.ErrSchemaDefinition{
				Field:  name,
				Reason: "invalid field configuration",
			}
			return nil, fmt.Errorf("%w: %w", errDef, err)
		}
		fields[name] = fieldConfig
	}
	return New(index, WithFields(fields))
}
