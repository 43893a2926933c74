package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ruleset declares the legal structure of a document: which node types
// exist, which children each type accepts, and which metadata fields are
// allowed on each type. It is loaded once per workflow template and
// consulted as an oracle by every structural mutation.
type Ruleset struct {
	Types map[string]TypeSpec `yaml:"types"`
}

// TypeSpec describes one structural node type.
type TypeSpec struct {
	Children []string `yaml:"children"`
	Metadata []string `yaml:"metadata"`
}

// LoadRuleset reads a ruleset YAML file.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset %s: %w", path, err)
	}

	var r Ruleset
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset %s: %w", path, err)
	}
	if len(r.Types) == 0 {
		return nil, fmt.Errorf("ruleset %s declares no types", path)
	}

	return &r, nil
}

// HasType reports whether the node type is declared at all.
func (r *Ruleset) HasType(name string) bool {
	_, ok := r.Types[name]
	return ok
}

// IsChildAllowed reports whether a node of type child may be attached under
// a node of type parent.
func (r *Ruleset) IsChildAllowed(parent, child string) bool {
	spec, ok := r.Types[parent]
	if !ok {
		return false
	}
	for _, c := range spec.Children {
		if c == child {
			return true
		}
	}
	return false
}

// IsFieldAllowed reports whether a metadata field may be attached to a node
// of the given type. Person fields use the same namespace.
func (r *Ruleset) IsFieldAllowed(node, field string) bool {
	spec, ok := r.Types[node]
	if !ok {
		return false
	}
	for _, f := range spec.Metadata {
		if f == field {
			return true
		}
	}
	return false
}
