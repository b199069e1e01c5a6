package element

// Element names of an OSM export.
const (
	Node     = "node"
	Way      = "way"
	Relation = "relation"
	Tag      = "tag"
	NodeRef  = "nd"
	Member   = "member"
)

// Attr is a single attribute of an element, e.g. id="42".
type Attr struct {
	Name  string
	Value string
}

// Attrs keeps the attributes in document order.
type Attrs []Attr

// Get returns the value of the first attribute with the given name.
func (a Attrs) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Has returns whether an attribute with the given name exists.
func (a Attrs) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// IsChildName returns whether elements with this name are kept as children
// of their parent element.
func IsChildName(name string) bool {
	return name == Tag || name == NodeRef || name == Member
}

// Child is a direct child of an element, like <tag k="" v=""/> or <nd ref=""/>.
// Children of children are not retained.
type Child struct {
	Name  string
	Attrs Attrs
}

// IsTag returns whether the child carries a k/v pair.
func (c *Child) IsTag() bool {
	return c.Attrs.Has("k")
}

// IsNodeRef returns whether the child is a node reference of a way.
func (c *Child) IsNodeRef() bool {
	return c.Name == NodeRef
}

// Element is a single element of an OSM export with its attributes and
// direct children. Elements are only valid until the parser returns the next
// element.
type Element struct {
	Name     string
	Attrs    Attrs
	Children []Child
}

// AddTag appends a <tag k="" v=""/> child.
func (e *Element) AddTag(key, value string) {
	e.Children = append(e.Children, Child{
		Name:  Tag,
		Attrs: Attrs{{"k", key}, {"v", value}},
	})
}

// AddNodeRef appends a <nd ref=""/> child.
func (e *Element) AddNodeRef(ref string) {
	e.Children = append(e.Children, Child{
		Name:  NodeRef,
		Attrs: Attrs{{"ref", ref}},
	})
}
