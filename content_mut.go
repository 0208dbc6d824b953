package scenetree

// ContentMut projects a mutable node onto its current content variant.
// Only the operations valid for the actual variant are reachable, so
// type-variant misuse (say, attribute edits on a text node) cannot be
// expressed.
//
//	if el, ok := node.ContentMut().Element(); ok {
//		el.SetAttribute(scenetree.AttributeKey{Name: "width"}, scenetree.FloatValue(120))
//	}
type ContentMut struct {
	element *ElementMut
	text    *TextMut
}

// ContentMut returns the variant projection for this node's content.
func (n NodeMut) ContentMut() ContentMut {
	switch n.Content().(type) {
	case *Element:
		return ContentMut{element: &ElementMut{n: n}}
	case *Text:
		return ContentMut{text: &TextMut{n: n}}
	default:
		return ContentMut{}
	}
}

// Element returns the element view, if the node is an element.
func (c ContentMut) Element() (*ElementMut, bool) { return c.element, c.element != nil }

// Text returns the text view, if the node is a text node.
func (c ContentMut) Text() (*TextMut, bool) { return c.text, c.text != nil }

// IsPlaceholder reports whether the node is a placeholder.
func (c ContentMut) IsPlaceholder() bool { return c.element == nil && c.text == nil }

// ElementMut is a scoped accessor for an element node's content. Each
// mutation reports the precise changed facet to the dirty tracker.
type ElementMut struct {
	n NodeMut
}

func (e *ElementMut) element() *Element {
	return e.n.Content().(*Element)
}

// Tag returns the element's tag.
func (e *ElementMut) Tag() string { return e.element().Tag }

// SetTag changes the element's tag, marking the tag facet.
func (e *ElementMut) SetTag(tag string) {
	e.n.tree.dirty.mark(e.n.id, NewMask().WithTag().Build())
	e.element().Tag = tag
}

// Namespace returns the element's namespace, empty if none.
func (e *ElementMut) Namespace() string { return e.element().Namespace }

// SetNamespace changes the element's namespace, marking the namespace
// facet.
func (e *ElementMut) SetNamespace(ns string) {
	e.n.tree.dirty.mark(e.n.id, NewMask().WithNamespace().Build())
	e.element().Namespace = ns
}

// Attributes returns the element's attribute map for reading. Mutate
// attributes through SetAttribute and RemoveAttribute so changes are
// tracked.
func (e *ElementMut) Attributes() map[AttributeKey]AttributeValue {
	return e.element().Attributes
}

// Attribute returns the value of the named attribute, if present.
func (e *ElementMut) Attribute(key AttributeKey) (AttributeValue, bool) {
	v, ok := e.element().Attributes[key]
	return v, ok
}

// SetAttribute sets one attribute, marking exactly that attribute's facet.
// It returns the previous value, if there was one.
func (e *ElementMut) SetAttribute(key AttributeKey, value AttributeValue) (AttributeValue, bool) {
	e.n.tree.dirty.mark(e.n.id, NewMask().WithAttributes(key.Name).Build())
	el := e.element()
	if el.Attributes == nil {
		el.Attributes = make(map[AttributeKey]AttributeValue)
	}
	prev, had := el.Attributes[key]
	el.Attributes[key] = value
	return prev, had
}

// RemoveAttribute removes one attribute, marking exactly that attribute's
// facet. It returns the removed value, if there was one.
func (e *ElementMut) RemoveAttribute(key AttributeKey) (AttributeValue, bool) {
	e.n.tree.dirty.mark(e.n.id, NewMask().WithAttributes(key.Name).Build())
	prev, had := e.element().Attributes[key]
	delete(e.element().Attributes, key)
	return prev, had
}

// Listeners returns the event names the element listens for.
func (e *ElementMut) Listeners() []string {
	set := e.element().Listeners
	out := make([]string, 0, len(set))
	for event := range set {
		out = append(out, event)
	}
	return out
}

// TextMut is a scoped accessor for a text node's content.
type TextMut struct {
	n NodeMut
}

func (t *TextMut) text() *Text {
	return t.n.Content().(*Text)
}

// String returns the text content.
func (t *TextMut) String() string { return t.text().Value }

// Set replaces the text content, marking the text facet.
func (t *TextMut) Set(s string) {
	t.n.tree.dirty.mark(t.n.id, NewMask().WithText().Build())
	t.text().Value = s
}
