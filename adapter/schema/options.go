package schema

import (
	"strings"

	"github.com/vinicius-lino-figueiredo/mongofluent/domain"
)

type definition struct {
	simple map[string]FieldConfig
	dict   map[string]FieldConfig
	err    error
}

func (d *definition) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Option declares fields during schema construction.
type Option func(*definition)

// WithField declares a plain attribute-style field. Dot-notation paths have
// to go through [WithFields], mirroring the distinction between attribute
// declarations and the field dictionary.
func WithField(name string, config FieldConfig) Option {
	return func(d *definition) {
		if name == "" {
			d.fail(domain.ErrSchemaDefinition{
				Field:  name,
				Reason: "field name must not be empty",
			})
			return
		}
		if strings.Contains(name, ".") {
			d.fail(domain.ErrSchemaDefinition{
				Field:  name,
				Reason: "dot-notation paths must be declared through WithFields",
			})
			return
		}
		if _, ok := d.simple[name]; ok {
			d.fail(domain.ErrSchemaDefinition{
				Field:  name,
				Reason: "declared twice",
			})
			return
		}
		d.simple[name] = config
	}
}

// WithFields declares fields from a dictionary, allowing any path including
// dot-notation names such as "price.amount".
func WithFields(fields map[string]FieldConfig) Option {
	return func(d *definition) {
		for name, config := range fields {
			if _, ok := d.dict[name]; ok {
				d.fail(domain.ErrSchemaDefinition{
					Field:  name,
					Reason: "declared twice",
				})
				return
			}
			d.dict[name] = config
		}
	}
}
