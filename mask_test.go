package scenetree

import "testing"

func TestMaskBuilderFacets(t *testing.T) {
	m := NewMask().WithTag().WithText().Build()
	if !m.Tag() || !m.Text() {
		t.Error("built mask should select tag and text")
	}
	if m.Namespace() || m.Listeners() {
		t.Error("built mask should not select namespace or listeners")
	}
	if m.Attribute("width") {
		t.Error("built mask should not select any attribute")
	}
}

func TestMaskOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b NodeMask
		want bool
	}{
		{
			"disjoint facets",
			NewMask().WithTag().Build(),
			NewMask().WithText().Build(),
			false,
		},
		{
			"shared facet",
			NewMask().WithTag().WithText().Build(),
			NewMask().WithText().Build(),
			true,
		},
		{
			"disjoint attributes",
			NewMask().WithAttributes("width").Build(),
			NewMask().WithAttributes("height").Build(),
			false,
		},
		{
			"shared attribute",
			NewMask().WithAttributes("width", "x").Build(),
			NewMask().WithAttributes("x").Build(),
			true,
		},
		{
			"all attributes overlaps named",
			NewMask().WithAllAttributes().Build(),
			NewMask().WithAttributes("anything").Build(),
			true,
		},
		{
			"all attributes does not overlap none",
			NewMask().WithAllAttributes().Build(),
			NewMask().WithTag().Build(),
			false,
		},
		{
			"full mask overlaps everything",
			FullMask(),
			NewMask().WithListeners().Build(),
			true,
		},
		{
			"empty masks never overlap",
			NodeMask{},
			NodeMask{},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (flipped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaskUnionIsCommutative(t *testing.T) {
	a := NewMask().WithTag().WithAttributes("width").Build()
	b := NewMask().WithText().WithAttributes("height").Build()

	ab := a.Union(b)
	ba := b.Union(a)

	for _, m := range []NodeMask{ab, ba} {
		if !m.Tag() || !m.Text() {
			t.Error("union should select tag and text")
		}
		if !m.Attribute("width") || !m.Attribute("height") {
			t.Error("union should select both attributes")
		}
		if m.Namespace() {
			t.Error("union should not invent facets")
		}
	}
}

func TestMaskUnionDoesNotAliasInputs(t *testing.T) {
	a := NewMask().WithAttributes("width").Build()
	b := NewMask().WithAttributes("height").Build()

	u := a.Union(b)
	_ = u.Union(NewMask().WithAttributes("depth").Build())

	if a.Attribute("height") || a.Attribute("depth") {
		t.Error("union mutated its input mask")
	}
}

func TestMaskUnionWithAll(t *testing.T) {
	named := NewMask().WithAttributes("width").Build()
	all := NewMask().WithAllAttributes().Build()
	u := named.Union(all)
	if !u.Attribute("anything") {
		t.Error("union with an all-attributes mask should select all attributes")
	}
}
