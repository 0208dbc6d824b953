package scenetree

import (
	"fmt"

	"github.com/gogpu/scenetree/arena"
)

// NodeID identifies a node in a Tree. It aliases arena.NodeID so that
// callers and passes can use the two packages interchangeably.
type NodeID = arena.NodeID

// Content is the closed set of node content variants: *Element, *Text,
// and Placeholder. No other type implements it.
type Content interface {
	sealedContent()
}

// Element is the content of an element node: a tag, an optional namespace,
// attributes, and the set of event names the node listens for.
type Element struct {
	Tag        string
	Namespace  string
	Attributes map[AttributeKey]AttributeValue
	Listeners  map[string]struct{}
}

func (*Element) sealedContent() {}

// Text is the content of a text node.
type Text struct {
	Value     string
	Listeners map[string]struct{}
}

func (*Text) sealedContent() {}

// Placeholder is the content of a node that reserves a position in the
// tree without carrying any data.
type Placeholder struct{}

func (Placeholder) sealedContent() {}

// contentListeners returns the listener set of c, or nil for variants
// that cannot listen.
func contentListeners(c Content) map[string]struct{} {
	switch v := c.(type) {
	case *Element:
		return v.Listeners
	case *Text:
		return v.Listeners
	}
	return nil
}

// cloneContent deep-copies node content, including attribute maps and
// listener sets.
func cloneContent(c Content) Content {
	switch v := c.(type) {
	case *Element:
		out := &Element{Tag: v.Tag, Namespace: v.Namespace}
		if v.Attributes != nil {
			out.Attributes = make(map[AttributeKey]AttributeValue, len(v.Attributes))
			for k, val := range v.Attributes {
				out.Attributes[k] = val
			}
		}
		if v.Listeners != nil {
			out.Listeners = make(map[string]struct{}, len(v.Listeners))
			for e := range v.Listeners {
				out.Listeners[e] = struct{}{}
			}
		}
		return out
	case *Text:
		out := &Text{Value: v.Value}
		if v.Listeners != nil {
			out.Listeners = make(map[string]struct{}, len(v.Listeners))
			for e := range v.Listeners {
				out.Listeners[e] = struct{}{}
			}
		}
		return out
	default:
		return Placeholder{}
	}
}

// AttributeKey names one attribute of an element, optionally qualified by
// a namespace.
type AttributeKey struct {
	Name      string
	Namespace string
}

// AttributeValueKind discriminates the variants of AttributeValue.
type AttributeValueKind uint8

// Attribute value variants.
const (
	AttributeText AttributeValueKind = iota
	AttributeFloat
	AttributeInt
	AttributeBool
	AttributeAny
)

// AttributeValue is a closed variant over the representations an attribute
// value can take. The zero value is the empty text value.
type AttributeValue struct {
	kind AttributeValueKind
	text string
	f    float64
	i    int64
	b    bool
	v    any
}

// TextValue returns a text attribute value.
func TextValue(s string) AttributeValue { return AttributeValue{kind: AttributeText, text: s} }

// FloatValue returns a float attribute value.
func FloatValue(f float64) AttributeValue { return AttributeValue{kind: AttributeFloat, f: f} }

// IntValue returns an integer attribute value.
func IntValue(i int64) AttributeValue { return AttributeValue{kind: AttributeInt, i: i} }

// BoolValue returns a boolean attribute value.
func BoolValue(b bool) AttributeValue { return AttributeValue{kind: AttributeBool, b: b} }

// AnyValue returns an attribute value carrying an arbitrary renderer-defined
// payload.
func AnyValue(v any) AttributeValue { return AttributeValue{kind: AttributeAny, v: v} }

// Kind returns the variant of the value.
func (v AttributeValue) Kind() AttributeValueKind { return v.kind }

// Text returns the text payload, if the value is a text value.
func (v AttributeValue) Text() (string, bool) { return v.text, v.kind == AttributeText }

// Float returns the float payload, if the value is a float value.
func (v AttributeValue) Float() (float64, bool) { return v.f, v.kind == AttributeFloat }

// Int returns the integer payload, if the value is an integer value.
func (v AttributeValue) Int() (int64, bool) { return v.i, v.kind == AttributeInt }

// Bool returns the boolean payload, if the value is a boolean value.
func (v AttributeValue) Bool() (bool, bool) { return v.b, v.kind == AttributeBool }

// Any returns the arbitrary payload, if the value is an any value.
func (v AttributeValue) Any() (any, bool) { return v.v, v.kind == AttributeAny }

// String implements fmt.Stringer for diagnostics.
func (v AttributeValue) String() string {
	switch v.kind {
	case AttributeText:
		return v.text
	case AttributeFloat:
		return fmt.Sprintf("%g", v.f)
	case AttributeInt:
		return fmt.Sprintf("%d", v.i)
	case AttributeBool:
		return fmt.Sprintf("%t", v.b)
	default:
		return fmt.Sprintf("%v", v.v)
	}
}
