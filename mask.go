package scenetree

// maskFlag is the bit-set of non-attribute node facets.
type maskFlag uint8

const (
	maskTag maskFlag = 1 << iota
	maskNamespace
	maskText
	maskListeners
)

const maskAllFlags = maskTag | maskNamespace | maskText | maskListeners

// AttributeMask selects attributes by name: none, a specific set, or all.
// The zero value selects none.
type AttributeMask struct {
	all   bool
	names map[string]struct{}
}

func (m AttributeMask) isEmpty() bool {
	return !m.all && len(m.names) == 0
}

// overlaps reports whether the two masks select at least one attribute in
// common. An "all" mask overlaps any non-empty mask.
func (m AttributeMask) overlaps(other AttributeMask) bool {
	if m.isEmpty() || other.isEmpty() {
		return false
	}
	if m.all || other.all {
		return true
	}
	small, large := m.names, other.names
	if len(large) < len(small) {
		small, large = large, small
	}
	for name := range small {
		if _, ok := large[name]; ok {
			return true
		}
	}
	return false
}

// union returns the mask selecting every attribute either mask selects.
// Neither input is modified.
func (m AttributeMask) union(other AttributeMask) AttributeMask {
	if m.all || other.all {
		return AttributeMask{all: true}
	}
	if len(other.names) == 0 {
		return m
	}
	if len(m.names) == 0 {
		return other
	}
	names := make(map[string]struct{}, len(m.names)+len(other.names))
	for n := range m.names {
		names[n] = struct{}{}
	}
	for n := range other.names {
		names[n] = struct{}{}
	}
	return AttributeMask{names: names}
}

// NodeMask describes which observable facets of a node changed, or which
// facets a pass is interested in: tag, namespace, text, listeners, and a
// set of named attributes. The zero value selects nothing.
//
// Masks are values; Union returns a new mask rather than aliasing either
// input, so accumulated masks are safe to hand to callers.
type NodeMask struct {
	flags maskFlag
	attrs AttributeMask
}

// Overlaps reports whether m and other share at least one facet.
func (m NodeMask) Overlaps(other NodeMask) bool {
	return m.flags&other.flags != 0 || m.attrs.overlaps(other.attrs)
}

// Union returns the facet-wise union of m and other.
func (m NodeMask) Union(other NodeMask) NodeMask {
	return NodeMask{
		flags: m.flags | other.flags,
		attrs: m.attrs.union(other.attrs),
	}
}

// IsEmpty reports whether the mask selects no facet at all.
func (m NodeMask) IsEmpty() bool {
	return m.flags == 0 && m.attrs.isEmpty()
}

// Tag reports whether the mask selects the tag facet.
func (m NodeMask) Tag() bool { return m.flags&maskTag != 0 }

// Namespace reports whether the mask selects the namespace facet.
func (m NodeMask) Namespace() bool { return m.flags&maskNamespace != 0 }

// Text reports whether the mask selects the text facet.
func (m NodeMask) Text() bool { return m.flags&maskText != 0 }

// Listeners reports whether the mask selects the listener facet.
func (m NodeMask) Listeners() bool { return m.flags&maskListeners != 0 }

// Attribute reports whether the mask selects the named attribute.
func (m NodeMask) Attribute(name string) bool {
	if m.attrs.all {
		return true
	}
	_, ok := m.attrs.names[name]
	return ok
}

// FullMask returns the mask selecting every facet and all attributes.
// Used for maximally conservative invalidation: full content replacement
// and newly created nodes.
func FullMask() NodeMask {
	return NodeMask{flags: maskAllFlags, attrs: AttributeMask{all: true}}
}

// MaskBuilder assembles a NodeMask facet by facet.
//
//	mask := scenetree.NewMask().WithTag().WithAttributes("width").Build()
type MaskBuilder struct {
	m NodeMask
}

// NewMask returns a builder for an empty mask.
func NewMask() *MaskBuilder { return &MaskBuilder{} }

// WithTag selects the tag facet.
func (b *MaskBuilder) WithTag() *MaskBuilder {
	b.m.flags |= maskTag
	return b
}

// WithNamespace selects the namespace facet.
func (b *MaskBuilder) WithNamespace() *MaskBuilder {
	b.m.flags |= maskNamespace
	return b
}

// WithText selects the text facet.
func (b *MaskBuilder) WithText() *MaskBuilder {
	b.m.flags |= maskText
	return b
}

// WithListeners selects the listener facet.
func (b *MaskBuilder) WithListeners() *MaskBuilder {
	b.m.flags |= maskListeners
	return b
}

// WithAllAttributes selects every attribute.
func (b *MaskBuilder) WithAllAttributes() *MaskBuilder {
	b.m.attrs = AttributeMask{all: true}
	return b
}

// WithAttributes selects the named attributes, in addition to any selected
// earlier.
func (b *MaskBuilder) WithAttributes(names ...string) *MaskBuilder {
	if b.m.attrs.all {
		return b
	}
	if b.m.attrs.names == nil {
		b.m.attrs.names = make(map[string]struct{}, len(names))
	}
	for _, n := range names {
		b.m.attrs.names[n] = struct{}{}
	}
	return b
}

// Build returns the assembled mask.
func (b *MaskBuilder) Build() NodeMask { return b.m }
