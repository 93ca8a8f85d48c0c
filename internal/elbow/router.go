// Package elbow routes orthogonal connectors. A routed arrow leaves its start
// target from the side facing the other end, runs horizontal and vertical
// segments only, and enters its end target the same way.
package elbow

import (
	"errors"
	"math"

	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// ErrNoRoute is returned when an arrow's geometry cannot produce a finite path.
var ErrNoRoute = errors.New("elbow: no finite route")

// Side is the edge of a bound element an arrow attaches to.
type Side int

// Sides.
const (
	SideNone Side = iota
	SideTop
	SideRight
	SideBottom
	SideLeft
)

func (s Side) horizontal() bool { return s == SideLeft || s == SideRight }

// Router implements orthogonal routing for the mutation engine.
type Router struct{}

// New returns a Router.
func New() *Router { return &Router{} }

type point struct{ x, y float64 }

// Route returns the x, y, points, width, and height updates for an elbow
// arrow with pending updates applied. Bound endpoints snap to the facing side
// of their target; free endpoints keep their current position. When the
// arrow has fixed segments, interior points are kept and only the segments
// touching the endpoints are adjusted.
func (r *Router) Route(store scene.ElementsMap, el *types.Element, updates types.Updates) (types.Updates, error) {
	x, y := el.X, el.Y
	if v, ok := updates[types.FieldX].(float64); ok {
		x = v
	}
	if v, ok := updates[types.FieldY].(float64); ok {
		y = v
	}
	pts := el.Points
	if v, ok := updates[types.FieldPoints].([]types.Point); ok {
		pts = v
	}
	fixed := el.FixedSegments
	if updates.Has(types.FieldFixedSegments) {
		fixed, _ = updates[types.FieldFixedSegments].([]types.FixedSegment)
	}

	start, end := point{x, y}, point{x + el.Width, y + el.Height}
	if len(pts) > 0 {
		start = point{x + pts[0][0], y + pts[0][1]}
		end = point{x + pts[len(pts)-1][0], y + pts[len(pts)-1][1]}
	}

	startTarget := target(store, el, updates, types.FieldStartBinding)
	endTarget := target(store, el, updates, types.FieldEndBinding)

	startRef, endRef := end, start
	if endTarget != nil {
		startRef = center(endTarget)
	}
	if startTarget != nil {
		endRef = center(startTarget)
	}

	startSide, endSide := SideNone, SideNone
	if startTarget != nil {
		start, startSide = attach(startTarget, startRef)
	}
	if endTarget != nil {
		end, endSide = attach(endTarget, endRef)
	}

	var path []point
	if len(fixed) > 0 && len(pts) >= 4 {
		path = keepInterior(pts, x, y, start, end)
	} else {
		path = orthogonal(start, end, startSide, endSide)
	}
	path = simplify(path)

	for _, p := range path {
		if math.IsNaN(p.x) || math.IsNaN(p.y) || math.IsInf(p.x, 0) || math.IsInf(p.y, 0) {
			return nil, ErrNoRoute
		}
	}

	origin := path[0]
	out := make([]types.Point, len(path))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range path {
		out[i] = types.Point{p.x - origin.x, p.y - origin.y}
		minX, maxX = math.Min(minX, out[i][0]), math.Max(maxX, out[i][0])
		minY, maxY = math.Min(minY, out[i][1]), math.Max(maxY, out[i][1])
	}
	return types.Updates{
		types.FieldX:      origin.x,
		types.FieldY:      origin.y,
		types.FieldPoints: out,
		types.FieldWidth:  maxX - minX,
		types.FieldHeight: maxY - minY,
	}, nil
}

func target(store scene.ElementsMap, el *types.Element, updates types.Updates, field string) *types.Element {
	var b *types.PointBinding
	if v, ok := updates[field]; ok {
		b, _ = v.(*types.PointBinding)
	} else if field == types.FieldStartBinding {
		b = el.StartBinding
	} else {
		b = el.EndBinding
	}
	if b == nil || store == nil {
		return nil
	}
	return store.Get(b.ElementID)
}

func center(el *types.Element) point {
	return point{el.X + el.Width/2, el.Y + el.Height/2}
}

// attach picks the side of el that faces ref and returns its midpoint.
func attach(el *types.Element, ref point) (point, Side) {
	c := center(el)
	dx, dy := ref.x-c.x, ref.y-c.y
	if math.Abs(dy) > math.Abs(dx) {
		if dy > 0 {
			return point{c.x, el.Y + el.Height}, SideBottom
		}
		return point{c.x, el.Y}, SideTop
	}
	if dx > 0 {
		return point{el.X + el.Width, c.y}, SideRight
	}
	return point{el.X, c.y}, SideLeft
}

// orthogonal joins start and end with a horizontal-vertical-horizontal or
// vertical-horizontal-vertical path, following the start side when known.
func orthogonal(start, end point, startSide, endSide Side) []point {
	horizontal := math.Abs(end.x-start.x) >= math.Abs(end.y-start.y)
	switch {
	case startSide != SideNone:
		horizontal = startSide.horizontal()
	case endSide != SideNone:
		horizontal = endSide.horizontal()
	}
	if horizontal {
		mid := (start.x + end.x) / 2
		return []point{start, {mid, start.y}, {mid, end.y}, end}
	}
	mid := (start.y + end.y) / 2
	return []point{start, {start.x, mid}, {end.x, mid}, end}
}

// keepInterior moves the endpoints of an existing path of at least four
// points. The point next to each endpoint slides so the end segment stays
// perpendicular to the interior segment it joins.
func keepInterior(pts []types.Point, x, y float64, start, end point) []point {
	path := make([]point, len(pts))
	for i, p := range pts {
		path[i] = point{x + p[0], y + p[1]}
	}
	last := len(path) - 1
	if path[1].x == path[2].x {
		path[1].y = start.y
	} else {
		path[1].x = start.x
	}
	if path[last-1].x == path[last-2].x {
		path[last-1].y = end.y
	} else {
		path[last-1].x = end.x
	}
	path[0], path[last] = start, end
	return path
}

// simplify drops repeated points and interior points on a straight run.
func simplify(path []point) []point {
	out := make([]point, 0, len(path))
	for _, p := range path {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
	}
	if len(out) < 3 {
		if len(out) == 1 {
			out = append(out, out[0])
		}
		return out
	}
	kept := []point{out[0]}
	for i := 1; i < len(out)-1; i++ {
		prev, cur, next := kept[len(kept)-1], out[i], out[i+1]
		if (prev.x == cur.x && cur.x == next.x) || (prev.y == cur.y && cur.y == next.y) {
			continue
		}
		kept = append(kept, cur)
	}
	return append(kept, out[len(out)-1])
}
