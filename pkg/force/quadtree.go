package force

import "math"

// maxQuadDepth bounds subdivision so coincident or nearly coincident points
// share a leaf instead of recursing forever.
const maxQuadDepth = 32

// quad is a square cell of a point-region quadtree. Leaves hold a bucket of
// point indices; internal cells hold up to four children.
type quad struct {
	x0, y0, w float64
	kids      *[4]*quad
	bodies    []int
	r         float64 // largest radius in the subtree, set by fillRadii
}

func (q *quad) leaf() bool { return q.kids == nil }

// quadtree indexes points given as parallel coordinate slices, so callers can
// build it over current or predicted positions.
type quadtree struct {
	xs, ys []float64
	root   *quad
}

func newQuadtree(xs, ys []float64) *quadtree {
	t := &quadtree{xs: xs, ys: ys}
	if len(xs) == 0 {
		return t
	}

	x0, x1 := xs[0], xs[0]
	y0, y1 := ys[0], ys[0]
	for i := 1; i < len(xs); i++ {
		x0, x1 = math.Min(x0, xs[i]), math.Max(x1, xs[i])
		y0, y1 = math.Min(y0, ys[i]), math.Max(y1, ys[i])
	}
	w := math.Max(x1-x0, y1-y0)
	if w == 0 {
		w = 1
	}
	// Pad so points on the far edge still fall inside.
	w *= 1.0001
	t.root = &quad{x0: x0, y0: y0, w: w}

	for i := range xs {
		t.insert(t.root, i, 0)
	}
	return t
}

func (t *quadtree) insert(q *quad, i, depth int) {
	if q.leaf() {
		if len(q.bodies) == 0 || depth >= maxQuadDepth || t.coincident(q.bodies[0], i) {
			q.bodies = append(q.bodies, i)
			return
		}
		old := q.bodies
		q.bodies = nil
		q.kids = new([4]*quad)
		for _, j := range old {
			t.insert(t.child(q, j), j, depth+1)
		}
	}
	t.insert(t.child(q, i), i, depth+1)
}

func (t *quadtree) coincident(i, j int) bool {
	return t.xs[i] == t.xs[j] && t.ys[i] == t.ys[j]
}

// child returns (creating if needed) the quadrant of q containing point i.
func (t *quadtree) child(q *quad, i int) *quad {
	h := q.w / 2
	k, x0, y0 := 0, q.x0, q.y0
	if t.xs[i] >= q.x0+h {
		k, x0 = k+1, x0+h
	}
	if t.ys[i] >= q.y0+h {
		k, y0 = k+2, y0+h
	}
	if q.kids[k] == nil {
		q.kids[k] = &quad{x0: x0, y0: y0, w: h}
	}
	return q.kids[k]
}

// fillRadii records on every cell the largest radius found beneath it.
func (t *quadtree) fillRadii(radius func(i int) float64) {
	if t.root != nil {
		fillQuad(t.root, radius)
	}
}

func fillQuad(q *quad, radius func(i int) float64) {
	q.r = 0
	if q.leaf() {
		for _, i := range q.bodies {
			q.r = math.Max(q.r, radius(i))
		}
		return
	}
	for _, c := range q.kids {
		if c != nil {
			fillQuad(c, radius)
			q.r = math.Max(q.r, c.r)
		}
	}
}

// visit walks the tree in pre-order. When fn returns true the children of
// that cell are skipped.
func (t *quadtree) visit(fn func(q *quad) bool) {
	if t.root != nil {
		visitQuad(t.root, fn)
	}
}

func visitQuad(q *quad, fn func(q *quad) bool) {
	if fn(q) || q.leaf() {
		return
	}
	for _, c := range q.kids {
		if c != nil {
			visitQuad(c, fn)
		}
	}
}
