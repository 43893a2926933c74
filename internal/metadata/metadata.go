// Package metadata resolves configured metadata field templates against a
// parsed newspaper page: literal values, one optional named variable
// wrapped in underscores, space stripping for catalog identifiers, and
// person name splitting.
package metadata

import (
	"fmt"
	"strings"

	"github.com/mrlokans/newspaper-importer/internal/page"
)

// Level says which node of the logical tree a field targets.
type Level string

const (
	LevelAnchor Level = "anchor"
	LevelVolume Level = "volume"
	LevelIssue  Level = "issue"
)

// Field types whose values never contain spaces. Identifiers configured
// with templated values like "liech_volksblatt__year_" would otherwise
// pick up spaces from the surrounding template.
const (
	catalogIDDigitalType = "CatalogIDDigital"
	catalogIDSourceType  = "CatalogIDSource"
)

// FieldSpec is one configured metadata mapping: the target field type, a
// literal or templated value, the optional variable name, and whether the
// value names a person.
type FieldSpec struct {
	Type     string
	Value    string
	Variable string
	Person   bool
	Levels   []Level
}

// AppliesTo reports whether the field targets the given tree level.
func (s FieldSpec) AppliesTo(level Level) bool {
	for _, l := range s.Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Resolve produces the concrete field value for one page. When a variable
// is configured and its underscore-wrapped marker occurs in the template,
// every occurrence is replaced; a configured variable whose marker is
// absent is a no-op. A variable outside the known accessor set is an
// error, so a misconfigured name surfaces instead of leaking into the
// produced metadata. Catalog identifier fields get their spaces stripped.
func Resolve(spec FieldSpec, d page.Descriptor) (string, error) {
	value := spec.Value

	if spec.Variable != "" {
		marker := "_" + spec.Variable + "_"
		if strings.Contains(value, marker) {
			resolved, err := variableValue(spec.Variable, d)
			if err != nil {
				return "", err
			}
			value = strings.ReplaceAll(value, marker, resolved)
		}
	}

	if !isSpaceAllowed(spec.Type) {
		value = strings.ReplaceAll(value, " ", "")
	}

	return value, nil
}

// variableValue maps a variable name to its value on the descriptor.
func variableValue(variable string, d page.Descriptor) (string, error) {
	switch strings.ToLower(variable) {
	case "year":
		return d.Year, nil
	case "month":
		return d.Month, nil
	case "day":
		return d.Day, nil
	case "date":
		return d.Date, nil
	case "datefine":
		return d.DateFine(), nil
	case "page":
		return d.PageNumber, nil
	default:
		return "", fmt.Errorf("unknown template variable %q", variable)
	}
}

func isSpaceAllowed(fieldType string) bool {
	return fieldType != catalogIDDigitalType && fieldType != catalogIDSourceType
}

// SplitPersonName splits a resolved person value on the first space into
// first and last name. A value without a space cannot be split and is an
// error the caller reports as a skipped field.
func SplitPersonName(value string) (firstname, lastname string, err error) {
	i := strings.Index(value, " ")
	if i < 0 {
		return "", "", fmt.Errorf("person value %q has no space to split on", value)
	}
	return value[:i], strings.TrimSpace(value[i+1:]), nil
}
