// Package document implements the two-tree hierarchical document model of
// one digitized newspaper volume: a logical tree (newspaper, volume,
// issues) and a physical tree (bound book, pages) over a single node
// arena, cross-linked so that every physical page is referenced once by
// its issue and once by the volume.
package document

import (
	"encoding/json"
	"fmt"
)

// NodeID indexes a node in the document's arena. The zero arena has no
// nodes, so any NodeID is only meaningful for the document that issued it.
type NodeID int

// Metadata is one concrete field value on a node.
type Metadata struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Person is a person-flagged field, split into name components.
type Person struct {
	Type      string `json:"type"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// ContentFile is a binary content reference of a page node.
type ContentFile struct {
	MimeType string `json:"mimeType"`
	Location string `json:"location"`
}

// Node is one structural node in the arena. Tree membership is not stored
// here; the edge relations on Document decide where a node hangs.
type Node struct {
	Type         string        `json:"type"`
	Metadata     []Metadata    `json:"metadata,omitempty"`
	Persons      []Person      `json:"persons,omitempty"`
	ContentFiles []ContentFile `json:"contentFiles,omitempty"`
}

// Edge is one parent→child relation inside a tree, or one logical→physical
// cross-reference.
type Edge struct {
	Parent NodeID `json:"parent"`
	Child  NodeID `json:"child"`
}

// IssueRef maps an issue key to its node, in creation order. The registry
// is what makes issue creation idempotent across repeated builds against
// the same persisted document.
type IssueRef struct {
	Key  string `json:"key"`
	Node NodeID `json:"node"`
}

// Document is the assembled model. Logical tree, physical tree and the
// cross-reference relation are three separate edge sets over one arena,
// which keeps the structural invariants checkable without walking getters.
type Document struct {
	Nodes         []Node     `json:"nodes"`
	LogicalRoot   NodeID     `json:"logicalRoot"`
	PhysicalRoot  NodeID     `json:"physicalRoot"`
	LogicalEdges  []Edge     `json:"logicalEdges,omitempty"`
	PhysicalEdges []Edge     `json:"physicalEdges,omitempty"`
	References    []Edge     `json:"references,omitempty"`
	IssueRefs     []IssueRef `json:"issueRefs,omitempty"`

	hasLogicalRoot  bool
	hasPhysicalRoot bool
}

// New returns an empty document.
func New() *Document {
	return &Document{LogicalRoot: -1, PhysicalRoot: -1}
}

// Decode restores a persisted document from its JSON form.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if int(d.LogicalRoot) >= len(d.Nodes) || int(d.PhysicalRoot) >= len(d.Nodes) {
		return nil, fmt.Errorf("document roots out of range")
	}
	d.hasLogicalRoot = d.LogicalRoot >= 0
	d.hasPhysicalRoot = d.PhysicalRoot >= 0
	return &d, nil
}

// Encode serializes the document for persistence.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, nil
}

func (d *Document) addNode(nodeType string) NodeID {
	d.Nodes = append(d.Nodes, Node{Type: nodeType})
	return NodeID(len(d.Nodes) - 1)
}

func (d *Document) node(id NodeID) (*Node, error) {
	if id < 0 || int(id) >= len(d.Nodes) {
		return nil, fmt.Errorf("unknown node %d", id)
	}
	return &d.Nodes[id], nil
}

// NodeType returns the structural type of a node, or "" for an unknown ID.
func (d *Document) NodeType(id NodeID) string {
	n, err := d.node(id)
	if err != nil {
		return ""
	}
	return n.Type
}

// CreateLogicalRoot creates the anchor node of the logical tree.
func (d *Document) CreateLogicalRoot(r *Ruleset, nodeType string) (NodeID, error) {
	if d.hasLogicalRoot {
		return 0, fmt.Errorf("logical root already exists")
	}
	if !r.HasType(nodeType) {
		return 0, fmt.Errorf("structure type %q is not declared in the ruleset", nodeType)
	}
	d.LogicalRoot = d.addNode(nodeType)
	d.hasLogicalRoot = true
	return d.LogicalRoot, nil
}

// CreatePhysicalRoot creates the root node of the physical tree.
func (d *Document) CreatePhysicalRoot(r *Ruleset, nodeType string) (NodeID, error) {
	if d.hasPhysicalRoot {
		return 0, fmt.Errorf("physical root already exists")
	}
	if !r.HasType(nodeType) {
		return 0, fmt.Errorf("structure type %q is not declared in the ruleset", nodeType)
	}
	d.PhysicalRoot = d.addNode(nodeType)
	d.hasPhysicalRoot = true
	return d.PhysicalRoot, nil
}

// AddLogicalChild creates a node of the given type under parent in the
// logical tree. The ruleset must allow the child type under the parent's
// type.
func (d *Document) AddLogicalChild(r *Ruleset, parent NodeID, nodeType string) (NodeID, error) {
	return d.addChild(r, parent, nodeType, &d.LogicalEdges)
}

// AddPhysicalChild creates a node of the given type under parent in the
// physical tree.
func (d *Document) AddPhysicalChild(r *Ruleset, parent NodeID, nodeType string) (NodeID, error) {
	return d.addChild(r, parent, nodeType, &d.PhysicalEdges)
}

func (d *Document) addChild(r *Ruleset, parent NodeID, nodeType string, edges *[]Edge) (NodeID, error) {
	p, err := d.node(parent)
	if err != nil {
		return 0, err
	}
	if !r.IsChildAllowed(p.Type, nodeType) {
		return 0, fmt.Errorf("type %q is not allowed as child of %q", nodeType, p.Type)
	}
	child := d.addNode(nodeType)
	*edges = append(*edges, Edge{Parent: parent, Child: child})
	return child, nil
}

// AddMetadata attaches a field value to a node after checking it against
// the ruleset.
func (d *Document) AddMetadata(r *Ruleset, id NodeID, fieldType, value string) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	if !r.IsFieldAllowed(n.Type, fieldType) {
		return fmt.Errorf("metadata type %q is not allowed on %q", fieldType, n.Type)
	}
	n.Metadata = append(n.Metadata, Metadata{Type: fieldType, Value: value})
	return nil
}

// AddPerson attaches a person field to a node.
func (d *Document) AddPerson(r *Ruleset, id NodeID, fieldType, firstname, lastname string) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	if !r.IsFieldAllowed(n.Type, fieldType) {
		return fmt.Errorf("person type %q is not allowed on %q", fieldType, n.Type)
	}
	n.Persons = append(n.Persons, Person{Type: fieldType, Firstname: firstname, Lastname: lastname})
	return nil
}

// AddContentFile attaches a binary content reference to a node.
func (d *Document) AddContentFile(id NodeID, cf ContentFile) error {
	n, err := d.node(id)
	if err != nil {
		return err
	}
	n.ContentFiles = append(n.ContentFiles, cf)
	return nil
}

// AddReference records one logical→physical cross-reference.
func (d *Document) AddReference(from, to NodeID) error {
	if _, err := d.node(from); err != nil {
		return err
	}
	if _, err := d.node(to); err != nil {
		return err
	}
	d.References = append(d.References, Edge{Parent: from, Child: to})
	return nil
}

func childrenOf(edges []Edge, parent NodeID) []NodeID {
	var out []NodeID
	for _, e := range edges {
		if e.Parent == parent {
			out = append(out, e.Child)
		}
	}
	return out
}

// LogicalChildren lists the logical children of a node in append order.
func (d *Document) LogicalChildren(id NodeID) []NodeID {
	return childrenOf(d.LogicalEdges, id)
}

// PhysicalChildren lists the physical children of a node in append order.
func (d *Document) PhysicalChildren(id NodeID) []NodeID {
	return childrenOf(d.PhysicalEdges, id)
}

// ReferencesFrom lists the cross-referenced physical nodes of a logical
// node in append order.
func (d *Document) ReferencesFrom(id NodeID) []NodeID {
	return childrenOf(d.References, id)
}

// Volume returns the volume node: the first logical child of the anchor.
// This positional lookup is a structural assumption of the assembler, not
// a generic search.
func (d *Document) Volume() (NodeID, error) {
	if !d.hasLogicalRoot {
		return 0, fmt.Errorf("document has no logical root")
	}
	children := d.LogicalChildren(d.LogicalRoot)
	if len(children) == 0 {
		return 0, fmt.Errorf("logical root has no children")
	}
	return children[0], nil
}

// PhysicalPageCount returns the number of pages under the physical root.
// The next physical page number is this count plus one.
func (d *Document) PhysicalPageCount() int {
	if !d.hasPhysicalRoot {
		return 0
	}
	return len(d.PhysicalChildren(d.PhysicalRoot))
}

// Issue returns the node of an already created issue with the given key.
func (d *Document) Issue(key string) (NodeID, bool) {
	for _, ref := range d.IssueRefs {
		if ref.Key == key {
			return ref.Node, true
		}
	}
	return 0, false
}

// HasIssue reports whether an issue with the given key was already created
// in this document.
func (d *Document) HasIssue(key string) bool {
	_, ok := d.Issue(key)
	return ok
}

// RegisterIssue records the node created for an issue key.
func (d *Document) RegisterIssue(key string, node NodeID) {
	if !d.HasIssue(key) {
		d.IssueRefs = append(d.IssueRefs, IssueRef{Key: key, Node: node})
	}
}

// FindMetadata returns the first value of the given field type on a node.
func (d *Document) FindMetadata(id NodeID, fieldType string) (string, bool) {
	n, err := d.node(id)
	if err != nil {
		return "", false
	}
	for _, m := range n.Metadata {
		if m.Type == fieldType {
			return m.Value, true
		}
	}
	return "", false
}

// CheckReferences verifies the cross-link invariant: every page under the
// physical root is referenced exactly once by the volume and exactly once
// by one issue node.
func (d *Document) CheckReferences() error {
	volume, err := d.Volume()
	if err != nil {
		return err
	}

	fromVolume := make(map[NodeID]int)
	fromIssues := make(map[NodeID]int)
	for _, e := range d.References {
		if e.Parent == volume {
			fromVolume[e.Child]++
		} else {
			fromIssues[e.Child]++
		}
	}

	for _, pageID := range d.PhysicalChildren(d.PhysicalRoot) {
		if fromVolume[pageID] != 1 {
			return fmt.Errorf("page node %d has %d volume references, want 1", pageID, fromVolume[pageID])
		}
		if fromIssues[pageID] != 1 {
			return fmt.Errorf("page node %d has %d issue references, want 1", pageID, fromIssues[pageID])
		}
	}

	return nil
}
