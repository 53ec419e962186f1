// Package customfields implements the admin-defined attribute subsystem the
// entity workflow delegates to: a catalog of per-kind field definitions and a
// validator that type-checks and coerces incoming payloads. The workflow core
// never interprets field semantics itself.
package customfields

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeSelect  FieldType = "select"
)

const (
	EntityKindProposal     = "proposal"
	EntityKindServiceScope = "service_scope"
)

type Definition struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	EntityKind string                      `gorm:"size:64;not null;uniqueIndex:uq_custom_field_definitions_kind_name" json:"entityKind"`
	Name       string                      `gorm:"size:128;not null;uniqueIndex:uq_custom_field_definitions_kind_name" json:"name"`
	Label      *string                     `gorm:"size:255" json:"label,omitempty"`
	FieldType  FieldType                   `gorm:"size:32;not null" json:"fieldType"`
	Required   bool                        `gorm:"not null;default:false" json:"required"`
	Options    datatypes.JSONSlice[string] `json:"options,omitempty"`
	CreatedAt  time.Time                   `json:"createdAt"`
	UpdatedAt  time.Time                   `json:"updatedAt"`
}

func (Definition) TableName() string { return "custom_field_definitions" }

// Catalog reads field definitions keyed by name for one entity kind.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) DefinitionsFor(ctx context.Context, entityKind string) (map[string]Definition, error) {
	var rows []Definition
	err := c.db.WithContext(ctx).
		Where("entity_kind = ?", entityKind).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load field definitions for %s: %w", entityKind, err)
	}

	defs := make(map[string]Definition, len(rows))
	for _, row := range rows {
		defs[row.Name] = row
	}
	return defs, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Validate type-checks every provided value against its definition and
// returns the coerced payload. Unknown names and type mismatches are errors;
// absent fields are not (partial updates omit untouched keys).
func Validate(payload map[string]any, defs map[string]Definition) (map[string]any, error) {
	validated := make(map[string]any, len(payload))
	for name, raw := range payload {
		def, ok := defs[name]
		if !ok {
			return nil, fmt.Errorf("unknown custom field %q", name)
		}
		value, err := coerce(raw, def)
		if err != nil {
			return nil, fmt.Errorf("custom field %q: %w", name, err)
		}
		validated[name] = value
	}
	return validated, nil
}

func coerce(raw any, def Definition) (any, error) {
	if raw == nil {
		if def.Required {
			return nil, fmt.Errorf("is required and cannot be null")
		}
		return nil, nil
	}

	switch def.FieldType {
	case FieldTypeText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected text, got %T", raw)
		}
		return s, nil

	case FieldTypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
		return nil, fmt.Errorf("expected number, got %T", raw)

	case FieldTypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, nil

	case FieldTypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected date string, got %T", raw)
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC().Format(time.RFC3339), nil
			}
		}
		return nil, fmt.Errorf("invalid date value %q", s)

	case FieldTypeSelect:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected option string, got %T", raw)
		}
		for _, option := range def.Options {
			if option == s {
				return s, nil
			}
		}
		return nil, fmt.Errorf("value %q is not one of [%s]", s, strings.Join(def.Options, ", "))
	}

	return nil, fmt.Errorf("unsupported field type %q", def.FieldType)
}

// Merge shallow-merges validated incoming fields over the stored map.
// Incoming wins per key; untouched keys survive. Neither input is mutated.
func Merge(existing, incoming map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}
