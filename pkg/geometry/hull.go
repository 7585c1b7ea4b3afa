package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type hullFace struct {
	a, b, c int
	normal  r3.Vec // unit
	offset  float64
	dead    bool
}

// ConvexHull computes the convex hull of a point set as a closed triangle
// mesh with outward-facing windings. Incremental construction: seed a
// non-degenerate tetrahedron, then grow it one point at a time by removing
// the faces each point can see and stitching new faces along the horizon.
// Degenerate input (fewer than four points, or all points coplanar) is an
// error; the caller falls back to the bounding-box approximation.
func ConvexHull(points []r3.Vec) (*Mesh, error) {
	pts := dedupe(points)
	if len(pts) < 4 {
		return nil, fmt.Errorf("convex hull needs at least 4 distinct points, got %d", len(pts))
	}

	eps := hullEpsilon(pts)
	seed, err := seedTetrahedron(pts, eps)
	if err != nil {
		return nil, err
	}

	// Any point strictly inside the seed tetrahedron stays inside the hull
	// forever; use its centroid as the orientation reference.
	interior := r3.Scale(0.25, r3.Add(
		r3.Add(pts[seed[0]], pts[seed[1]]),
		r3.Add(pts[seed[2]], pts[seed[3]])))

	faces := []hullFace{
		makeFace(pts, seed[0], seed[1], seed[2], interior),
		makeFace(pts, seed[0], seed[1], seed[3], interior),
		makeFace(pts, seed[0], seed[2], seed[3], interior),
		makeFace(pts, seed[1], seed[2], seed[3], interior),
	}

	inSeed := map[int]bool{seed[0]: true, seed[1]: true, seed[2]: true, seed[3]: true}
	for i := range pts {
		if inSeed[i] {
			continue
		}
		faces = addPoint(pts, faces, i, interior, eps)
	}

	out := &Mesh{Name: "convex-hull"}
	for _, f := range faces {
		if f.dead {
			continue
		}
		out.Triangles = append(out.Triangles, Triangle{pts[f.a], pts[f.b], pts[f.c]})
	}
	return out, nil
}

// addPoint grows the hull by one point, leaving the face list compacted.
func addPoint(pts []r3.Vec, faces []hullFace, p int, interior r3.Vec, eps float64) []hullFace {
	type edge struct{ u, v int }

	visible := make([]int, 0, 8)
	for i, f := range faces {
		if !f.dead && r3.Dot(f.normal, pts[p])-f.offset > eps {
			visible = append(visible, i)
		}
	}
	if len(visible) == 0 {
		return faces // point already inside the hull
	}

	// Directed edges of the visible region. Horizon edges are those whose
	// twin belongs to a face that survives.
	dir := make(map[edge]bool, len(visible)*3)
	for _, i := range visible {
		f := faces[i]
		dir[edge{f.a, f.b}] = true
		dir[edge{f.b, f.c}] = true
		dir[edge{f.c, f.a}] = true
	}
	var horizon []edge
	for e := range dir {
		if !dir[edge{e.v, e.u}] {
			horizon = append(horizon, e)
		}
	}

	for _, i := range visible {
		faces[i].dead = true
	}
	for _, e := range horizon {
		faces = append(faces, makeFace(pts, e.u, e.v, p, interior))
	}

	// Compact dead faces so the scan per point stays proportional to the
	// live hull size.
	live := faces[:0]
	for _, f := range faces {
		if !f.dead {
			live = append(live, f)
		}
	}
	return live
}

// makeFace builds a face whose normal points away from the interior point.
func makeFace(pts []r3.Vec, a, b, c int, interior r3.Vec) hullFace {
	n := r3.Unit(r3.Cross(r3.Sub(pts[b], pts[a]), r3.Sub(pts[c], pts[a])))
	offset := r3.Dot(n, pts[a])
	if r3.Dot(n, interior)-offset > 0 {
		a, b = b, a
		n = r3.Scale(-1, n)
		offset = r3.Dot(n, pts[a])
	}
	return hullFace{a: a, b: b, c: c, normal: n, offset: offset}
}

// seedTetrahedron picks four points spanning a non-degenerate volume:
// extremes on x, the point furthest from that segment, then the point
// furthest from that plane.
func seedTetrahedron(pts []r3.Vec, eps float64) ([4]int, error) {
	i0, i1 := 0, 0
	for i, p := range pts {
		if p.X < pts[i0].X {
			i0 = i
		}
		if p.X > pts[i1].X {
			i1 = i
		}
	}
	if i0 == i1 {
		// All x equal; fall back to first two distinct points.
		i1 = 1
	}

	axis := r3.Sub(pts[i1], pts[i0])
	i2, best := -1, eps
	for i, p := range pts {
		d := r3.Norm(r3.Cross(axis, r3.Sub(p, pts[i0])))
		if d > best {
			i2, best = i, d
		}
	}
	if i2 < 0 {
		return [4]int{}, fmt.Errorf("convex hull degenerate: all points collinear")
	}

	n := r3.Cross(axis, r3.Sub(pts[i2], pts[i0]))
	i3, best := -1, eps
	for i, p := range pts {
		d := math.Abs(r3.Dot(n, r3.Sub(p, pts[i0]))) / r3.Norm(n)
		if d > best {
			i3, best = i, d
		}
	}
	if i3 < 0 {
		return [4]int{}, fmt.Errorf("convex hull degenerate: all points coplanar")
	}
	return [4]int{i0, i1, i2, i3}, nil
}

func hullEpsilon(pts []r3.Vec) float64 {
	var scale float64
	for _, p := range pts {
		scale = math.Max(scale, math.Abs(p.X))
		scale = math.Max(scale, math.Abs(p.Y))
		scale = math.Max(scale, math.Abs(p.Z))
	}
	if scale == 0 {
		scale = 1
	}
	return 1e-9 * scale
}

func dedupe(points []r3.Vec) []r3.Vec {
	seen := make(map[r3.Vec]struct{}, len(points))
	out := make([]r3.Vec, 0, len(points))
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
