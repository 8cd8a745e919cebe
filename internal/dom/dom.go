// Package dom holds the arena-indexed document tree that parser output and
// expected fixtures are compared through.
//
// Nodes live in an append-only arena and are addressed by stable integer
// ids. The arena owns every node for the lifetime of the tree; Parent and
// Children fields are relations, not ownership, so detaching a node never
// frees it and its id never changes. This sidesteps the ownership cycles a
// pointer-linked tree would raise in parser code that reparents aggressively.
package dom

// NodeID is a stable index into a Tree's arena. The zero tree has the root
// at id 0. NoNode marks an absent reference.
type NodeID int

// NoNode is the sentinel for "no node" (absent template contents, absent
// insert-before reference, detached parent).
const NoNode NodeID = -1

// Namespace identifies the namespace half of a qualified name. It only ever
// affects how names are displayed in the canonical form, never tree shape.
type Namespace struct {
	kind  nsKind
	other string
}

type nsKind int

const (
	nsHTML nsKind = iota
	nsSVG
	nsMathML
	nsOther
)

// Namespace constructors and well-known values.
var (
	HTML   = Namespace{kind: nsHTML}
	SVG    = Namespace{kind: nsSVG}
	MathML = Namespace{kind: nsMathML}
)

// OtherNS returns a namespace outside the three well-known ones, e.g.
// "xlink", "xml", or "xmlns" for namespaced attributes.
func OtherNS(name string) Namespace {
	return Namespace{kind: nsOther, other: name}
}

// DisplayPrefix returns the literal prefix (including trailing space) the
// canonical form puts before local names in this namespace. Only the three
// reserved attribute namespaces among "other" values get a prefix.
func (ns Namespace) DisplayPrefix() string {
	switch ns.kind {
	case nsSVG:
		return "svg "
	case nsMathML:
		return "math "
	case nsOther:
		switch ns.other {
		case "xlink", "xml", "xmlns":
			return ns.other + " "
		}
	}
	return ""
}

// IsHTML reports whether this is the HTML namespace.
func (ns Namespace) IsHTML() bool { return ns.kind == nsHTML }

// QualName is a namespace-qualified name.
type QualName struct {
	NS    Namespace
	Local string
}

// Display returns the name as shown in the canonical form.
func (q QualName) Display() string {
	return q.NS.DisplayPrefix() + q.Local
}

// Attr is one element attribute.
type Attr struct {
	Name  QualName
	Value string
}

// NodeData is a sealed interface over the node kinds. Only DocumentData,
// FragmentData, ElementData, TextData, CommentData, and DoctypeData
// implement it.
type NodeData interface {
	nodeData() // sealed
}

// DocumentData marks the root of a whole-document tree.
type DocumentData struct{}

func (DocumentData) nodeData() {}

// FragmentData marks the root of a fragment tree or a template's contents.
type FragmentData struct{}

func (FragmentData) nodeData() {}

// ElementData is an element node. Attrs preserves insertion order;
// TemplateContents is NoNode until materialized via EnsureTemplateContents.
type ElementData struct {
	Name             QualName
	Attrs            []Attr
	TemplateContents NodeID
}

func (*ElementData) nodeData() {}

// TextData is a text node.
type TextData struct {
	Text string
}

func (*TextData) nodeData() {}

// CommentData is a comment node.
type CommentData struct {
	Text string
}

func (*CommentData) nodeData() {}

// DoctypeData is a doctype node.
type DoctypeData struct {
	Name     string
	PublicID string
	SystemID string
}

func (*DoctypeData) nodeData() {}

// Node is one arena entry.
type Node struct {
	Data     NodeData
	Parent   NodeID
	Children []NodeID
}

// Tree is an arena of nodes with a designated root. The root has no parent
// and is never itself a child.
type Tree struct {
	nodes []Node
	Root  NodeID
}

// NewDocument returns a tree whose root is a document node.
func NewDocument() *Tree {
	t := &Tree{}
	t.Root = t.alloc(DocumentData{})
	return t
}

// NewFragment returns a tree whose root is a document-fragment node.
func NewFragment() *Tree {
	t := &Tree{}
	t.Root = t.alloc(FragmentData{})
	return t
}

func (t *Tree) alloc(data NodeData) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Data: data, Parent: NoNode})
	return id
}

// Node returns the arena entry for id. The pointer stays valid until the
// next node creation.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of nodes in the arena, detached ones included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// CreateElement appends a new, unattached element node.
func (t *Tree) CreateElement(name QualName) NodeID {
	return t.alloc(&ElementData{Name: name, TemplateContents: NoNode})
}

// CreateText appends a new, unattached text node.
func (t *Tree) CreateText(text string) NodeID {
	return t.alloc(&TextData{Text: text})
}

// CreateComment appends a new, unattached comment node.
func (t *Tree) CreateComment(text string) NodeID {
	return t.alloc(&CommentData{Text: text})
}

// CreateDoctype appends a new, unattached doctype node.
func (t *Tree) CreateDoctype(name, publicID, systemID string) NodeID {
	return t.alloc(&DoctypeData{Name: name, PublicID: publicID, SystemID: systemID})
}

// AppendChild attaches child at the end of parent's child list.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.nodes[child].Parent = parent
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
}

// InsertBefore splices child immediately before ref among parent's
// children. When ref is NoNode or not a child of parent, this is an append.
func (t *Tree) InsertBefore(parent, child, ref NodeID) {
	if ref != NoNode {
		for i, c := range t.nodes[parent].Children {
			if c == ref {
				t.nodes[child].Parent = parent
				children := t.nodes[parent].Children
				children = append(children[:i], append([]NodeID{child}, children[i:]...)...)
				t.nodes[parent].Children = children
				return
			}
		}
	}
	t.AppendChild(parent, child)
}

// Detach removes node from its parent's child list and clears the back
// reference. The node stays in the arena and keeps its own children.
func (t *Tree) Detach(node NodeID) {
	parent := t.nodes[node].Parent
	if parent == NoNode {
		return
	}
	children := t.nodes[parent].Children
	for i, c := range children {
		if c == node {
			t.nodes[parent].Children = append(children[:i], children[i+1:]...)
			break
		}
	}
	t.nodes[node].Parent = NoNode
}

// SetAttr sets an attribute on an element. A qualified-name match overwrites
// the existing value in place, keeping attribute order; otherwise the
// attribute is appended. Non-element nodes are left untouched.
func (t *Tree) SetAttr(element NodeID, attr Attr) {
	el, ok := t.nodes[element].Data.(*ElementData)
	if !ok {
		return
	}
	for i := range el.Attrs {
		if el.Attrs[i].Name == attr.Name {
			el.Attrs[i].Value = attr.Value
			return
		}
	}
	el.Attrs = append(el.Attrs, attr)
}

// EnsureTemplateContents returns the element's contents fragment,
// materializing an empty one on first call. Repeated calls return the same
// id. Calling it on a non-element returns the id unchanged; callers must
// not rely on that path.
func (t *Tree) EnsureTemplateContents(template NodeID) NodeID {
	el, ok := t.nodes[template].Data.(*ElementData)
	if !ok {
		return template
	}
	if el.TemplateContents != NoNode {
		return el.TemplateContents
	}
	id := t.alloc(FragmentData{})
	el.TemplateContents = id
	return id
}
