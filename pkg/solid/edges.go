package solid

import (
	"github.com/Faultbox/terratile/pkg/math"
	"github.com/Faultbox/terratile/pkg/terrain"
)

// Report summarizes surface boundary topology.
type Report struct {
	BoundaryEdges    int // edges used by exactly one triangle
	BoundaryLoops    int // connected boundary components
	NonManifoldEdges int // edges used by more than two triangles
	BranchVertices   int // boundary vertices with other than two boundary edges

	// Watertight is true when extrusion yields a closed solid: one simple
	// boundary loop and no non-manifold edges.
	Watertight bool
}

type edgeKey struct {
	a, b uint32
}

// makeEdgeKey creates a canonical key for the undirected edge a-b.
func makeEdgeKey(a, b uint32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeUse records how often an undirected edge occurs and, for the first
// occurrence, its direction and vertex positions.
type edgeUse struct {
	count    int
	a, b     uint32
	from, to math.Vec3
}

type edgeSet struct {
	boundary    []edgeUse
	nonManifold int
}

// boundaryEdges counts edge occurrences over the whole surface and returns the
// edges used once, in first-seen order.
func boundaryEdges(m *terrain.SurfaceMesh) edgeSet {
	uses := make(map[edgeKey]*edgeUse, len(m.Indices))
	var order []edgeKey

	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
		for k := range 3 {
			a, b := tri[k], tri[(k+1)%3]
			key := makeEdgeKey(a, b)
			if u, ok := uses[key]; ok {
				u.count++
				continue
			}
			uses[key] = &edgeUse{count: 1, a: a, b: b, from: m.Positions[a], to: m.Positions[b]}
			order = append(order, key)
		}
	}

	var set edgeSet
	for _, key := range order {
		u := uses[key]
		switch {
		case u.count == 1:
			set.boundary = append(set.boundary, *u)
		case u.count > 2:
			set.nonManifold++
		}
	}
	return set
}

func (s edgeSet) report() Report {
	r := Report{
		BoundaryEdges:    len(s.boundary),
		NonManifoldEdges: s.nonManifold,
	}

	adj := make(map[uint32][]uint32)
	for _, e := range s.boundary {
		adj[e.a] = append(adj[e.a], e.b)
		adj[e.b] = append(adj[e.b], e.a)
	}
	for _, nbrs := range adj {
		if len(nbrs) != 2 {
			r.BranchVertices++
		}
	}

	seen := make(map[uint32]bool, len(adj))
	for _, e := range s.boundary {
		if seen[e.a] {
			continue
		}
		r.BoundaryLoops++
		stack := []uint32{e.a}
		seen[e.a] = true
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, w := range adj[v] {
				if !seen[w] {
					seen[w] = true
					stack = append(stack, w)
				}
			}
		}
	}

	r.Watertight = r.BoundaryLoops == 1 && r.BranchVertices == 0 && r.NonManifoldEdges == 0
	return r
}

// Analyze reports the boundary topology of a surface without extruding it.
func Analyze(m *terrain.SurfaceMesh) Report {
	return boundaryEdges(m).report()
}

// OpenEdges counts edges of the solid not shared by exactly two triangles,
// matching vertices by exact position. Zero means the solid is closed.
func OpenEdges(m *Mesh) int {
	type posEdge struct{ a, b math.Vec3 }
	less := func(p, q math.Vec3) bool {
		if p.X != q.X {
			return p.X < q.X
		}
		if p.Y != q.Y {
			return p.Y < q.Y
		}
		return p.Z < q.Z
	}

	counts := make(map[posEdge]int, 3*len(m.Triangles))
	for _, t := range m.Triangles {
		for k := range 3 {
			a, b := t[k], t[(k+1)%3]
			if less(b, a) {
				a, b = b, a
			}
			counts[posEdge{a, b}]++
		}
	}

	open := 0
	for _, c := range counts {
		if c != 2 {
			open++
		}
	}
	return open
}
