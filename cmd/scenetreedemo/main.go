// Command scenetreedemo demonstrates incremental scene-tree resolution.
//
// It builds a small document of nested boxes, registers a layout pass and
// a color pass, resolves derived state, edits a single attribute to show
// how little is recomputed, and paints the final layout to a PNG with gg.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gg"

	"github.com/gogpu/scenetree"
	"github.com/gogpu/scenetree/arena"
	"github.com/gogpu/scenetree/resolve"
)

// box is the layout pass's derived state: a resolved rectangle.
type box struct {
	x, y, w, h float64
}

// tint is the color pass's derived state.
type tint struct {
	r, g, b float64
}

func main() {
	var (
		width    = flag.Int("width", 640, "image width")
		height   = flag.Int("height", 480, "image height")
		output   = flag.String("output", "scenetree.png", "output file")
		parallel = flag.Bool("parallel", false, "resolve passes in parallel")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		scenetree.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var (
		tree       *scenetree.Tree
		layoutSlot arena.Slot[box]
		tintSlot   arena.Slot[tint]
	)

	widthKey := scenetree.AttributeKey{Name: "width"}
	heightKey := scenetree.AttributeKey{Name: "height"}
	hueKey := scenetree.AttributeKey{Name: "hue"}

	attr := func(a *arena.Arena, id arena.NodeID, key scenetree.AttributeKey, def float64) float64 {
		c, ok := tree.ContentSlot().Get(a, id)
		if !ok {
			return def
		}
		el, ok := c.(*scenetree.Element)
		if !ok {
			return def
		}
		if v, ok := el.Attributes[key]; ok {
			if f, ok := v.Float(); ok {
				return f
			}
		}
		return def
	}

	// layout stacks each element inside its parent's box, top to bottom,
	// inset by a fixed margin. It reads the parent's resolved box, so it
	// is parent-dependant and runs top-down.
	layout := &scenetree.Pass{
		ID:              "layout",
		Mask:            scenetree.NewMask().WithAttributes("width", "height").Build(),
		ParentDependant: true,
		RegisterStorage: func(a *arena.Arena) { layoutSlot = arena.ReserveSlot[box](a) },
		Run: func(a *arena.Arena, id arena.NodeID, _ *resolve.Context) bool {
			const margin = 12
			var next box
			parent, ok := a.ParentID(id)
			if !ok {
				next = box{w: float64(*width), h: float64(*height)}
			} else {
				pb, _ := layoutSlot.Get(a, parent)
				y := pb.y + margin
				for _, sib := range a.ChildIDs(parent) {
					if sib == id {
						break
					}
					sb, _ := layoutSlot.Get(a, sib)
					y = sb.y + sb.h + margin
				}
				next = box{
					x: pb.x + margin,
					y: y,
					w: attr(a, id, widthKey, pb.w-2*margin),
					h: attr(a, id, heightKey, 48),
				}
			}
			if prev, ok := layoutSlot.Get(a, id); ok && prev == next {
				return false
			}
			layoutSlot.Set(a, id, next)
			return true
		},
	}

	// color derives a fill color from the hue attribute. Independent of
	// layout, so the two can resolve in parallel.
	color := &scenetree.Pass{
		ID:              "color",
		Mask:            scenetree.NewMask().WithAttributes("hue").Build(),
		RegisterStorage: func(a *arena.Arena) { tintSlot = arena.ReserveSlot[tint](a) },
		Run: func(a *arena.Arena, id arena.NodeID, _ *resolve.Context) bool {
			hue := attr(a, id, hueKey, 0.55)
			next := tint{r: 0.2 + 0.6*hue, g: 0.3, b: 0.9 - 0.5*hue}
			if prev, ok := tintSlot.Get(a, id); ok && prev == next {
				return false
			}
			tintSlot.Set(a, id, next)
			return true
		},
	}

	tree = scenetree.New([]*scenetree.Pass{layout, color}, scenetree.WithRootTag("canvas"))

	// Three panels, the middle one holding two nested rows.
	var panels []scenetree.NodeMut
	for i := 0; i < 3; i++ {
		p := tree.CreateNode(&scenetree.Element{Tag: "panel"})
		tree.RootMut().AddChild(p.ID())
		if el, ok := p.ContentMut().Element(); ok {
			el.SetAttribute(heightKey, scenetree.FloatValue(120))
			el.SetAttribute(hueKey, scenetree.FloatValue(float64(i)*0.3))
		}
		panels = append(panels, p)
	}
	for i := 0; i < 2; i++ {
		row := tree.CreateNode(&scenetree.Element{Tag: "row"})
		panels[1].AddChild(row.ID())
		if el, ok := row.ContentMut().Element(); ok {
			el.SetAttribute(heightKey, scenetree.FloatValue(36))
			el.SetAttribute(hueKey, scenetree.FloatValue(0.8))
		}
	}

	touched, _ := tree.ResolveState(resolve.NewContext(), *parallel)
	log.Printf("initial resolve touched %d of %d nodes", touched.Len(), tree.Len())

	// Edit one attribute: only the affected subtree resolves again.
	if el, ok := panels[2].ContentMut().Element(); ok {
		el.SetAttribute(hueKey, scenetree.FloatValue(0.95))
	}
	touched, _ = tree.ResolveState(resolve.NewContext(), *parallel)
	log.Printf("after one edit, resolve touched %d of %d nodes", touched.Len(), tree.Len())

	dc := gg.NewContext(*width, *height)
	dc.SetRGB(0.08, 0.09, 0.12)
	dc.DrawRectangle(0, 0, float64(*width), float64(*height))
	dc.Fill()

	tree.TraverseDepthFirst(func(n scenetree.NodeRef) {
		if n.ID() == tree.RootID() {
			return
		}
		b, ok := scenetree.RawState(n, layoutSlot)
		if !ok {
			return
		}
		c, _ := scenetree.RawState(n, tintSlot)
		dc.SetRGB(c.r, c.g, c.b)
		dc.DrawRectangle(b.x, b.y, b.w, b.h)
		dc.Fill()
	})

	if err := dc.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)", *output, *width, *height)
}
