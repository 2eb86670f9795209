// Package kdtree implements a static, surface-area-heuristic-partitioned
// k-d tree used as the scene's spatial acceleration structure.
package kdtree

import (
	rmath "pathtracer/math"
)

// Bounded is anything that can report a conservative axis-aligned bound.
// The tree never mutates items and never asks for a bound more than once
// per item during Build.
type Bounded interface {
	Bound() rmath.AABB
}

// Kt and Ki are the traversal/intersection cost constants of the surface
// area heuristic: expected cost of a node is Kt + Ki*(pL*nL + pR*nR).
const (
	Kt = 15.0
	Ki = 20.0
)

// emptyCutBonus discounts the cost of a split that carves off empty space
// on one side, since an empty child is free to skip at traversal time.
const emptyCutBonus = 0.8

// Tree is a static spatial index over items of type T. Build it once from
// a slice; query it any number of times with Query, concurrently, since
// it is never mutated after construction.
type Tree[T Bounded] struct {
	items []T
	nodes []node
	space rmath.AABB
}

type node struct {
	leaf bool

	// leaf
	itemIdx []int32

	// internal
	leftSpace, rightSpace rmath.AABB
	left, right           int32
}

// Build constructs the tree over items. An empty slice produces a tree
// whose Query always returns nil.
func Build[T Bounded](items []T) *Tree[T] {
	t := &Tree[T]{items: items}
	if len(items) == 0 {
		t.space = rmath.EmptyAABB()
		t.nodes = append(t.nodes, node{leaf: true})
		return t
	}

	bounds := make([]rmath.AABB, len(items))
	space := rmath.EmptyAABB()
	indices := make([]int32, len(items))
	for i, it := range items {
		b := it.Bound()
		bounds[i] = b
		space = space.Union(b)
		indices[i] = int32(i)
	}
	t.space = space
	t.build(space, indices, bounds)
	return t
}

// plane is a candidate split: one of the three axes at a given position.
type plane struct {
	axis int
	pos  float32
}

func splitSpace(v rmath.AABB, p plane) (left, right rmath.AABB) {
	left, right = v, v
	switch p.axis {
	case 0:
		left.Max.X = p.pos
		right.Min.X = p.pos
	case 1:
		left.Max.Y = p.pos
		right.Min.Y = p.pos
	default:
		left.Max.Z = p.pos
		right.Min.Z = p.pos
	}
	return left, right
}

func volume(b rmath.AABB) float32 {
	d := b.Max.Sub(b.Min)
	v := d.X * d.Y * d.Z
	if v < 0 {
		return -v
	}
	return v
}

// overlaps reports whether two boxes intersect, counting a shared border
// as overlap so that flat items lying on a split plane are kept.
func overlaps(a, b rmath.AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// perfectSplits returns, for one item's clipped bound within the node
// space v, every candidate plane that could possibly be optimal: the
// item's own min/max on each axis, as long as that plane actually falls
// strictly inside v (a plane flush with v's own boundary can't improve on
// a leaf).
func perfectSplits(item, v rmath.AABB) []plane {
	var res []plane
	if item.Min.X > v.Min.X {
		res = append(res, plane{0, item.Min.X})
	}
	if item.Min.Y > v.Min.Y {
		res = append(res, plane{1, item.Min.Y})
	}
	if item.Min.Z > v.Min.Z {
		res = append(res, plane{2, item.Min.Z})
	}
	if item.Max.X < v.Max.X {
		res = append(res, plane{0, item.Max.X})
	}
	if item.Max.Y < v.Max.Y {
		res = append(res, plane{1, item.Max.Y})
	}
	if item.Max.Z < v.Max.Z {
		res = append(res, plane{2, item.Max.Z})
	}
	return res
}

func cost(pl, pr float32, nl, nr int) float32 {
	factor := float32(1.0)
	if nl == 0 || nr == 0 {
		factor = emptyCutBonus
	}
	return factor * (Kt + Ki*(pl*float32(nl)+pr*float32(nr)))
}

func sah(p plane, v rmath.AABB, nl, nr int) float32 {
	left, right := splitSpace(v, p)
	total := volume(v)
	if total <= 0 {
		return float32(3.0e38)
	}
	return cost(volume(left)/total, volume(right)/total, nl, nr)
}

// classify splits indices into the subset whose clipped bound overlaps
// left and the subset overlapping right. An item straddling or touching
// the plane appears in both.
func classify(indices []int32, bounds []rmath.AABB, left, right rmath.AABB) (l, r []int32) {
	for _, idx := range indices {
		b := bounds[idx]
		if overlaps(left, b) {
			l = append(l, idx)
		}
		if overlaps(right, b) {
			r = append(r, idx)
		}
	}
	return l, r
}

// partition finds the minimum-cost candidate plane by trying every
// item's perfect splits against the node's current item set.
func partition(indices []int32, bounds []rmath.AABB, v rmath.AABB) (bestCost float32, bestPlane plane, ok bool) {
	bestCost = float32(3.0e38)
	for _, idx := range indices {
		for _, p := range perfectSplits(bounds[idx], v) {
			left, right := splitSpace(v, p)
			l, r := classify(indices, bounds, left, right)
			c := sah(p, v, len(l), len(r))
			if c < bestCost {
				bestCost = c
				bestPlane = p
				ok = true
			}
		}
	}
	return bestCost, bestPlane, ok
}

// build appends one node (recursively, depth-first) to t.nodes and
// returns its index.
func (t *Tree[T]) build(space rmath.AABB, indices []int32, bounds []rmath.AABB) int32 {
	c, p, ok := partition(indices, bounds, space)

	if !ok || c > Ki*float32(len(indices)) {
		idx := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{leaf: true, itemIdx: indices})
		return idx
	}

	left, right := splitSpace(space, p)
	l, r := classify(indices, bounds, left, right)

	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{}) // reserve slot
	leftIdx := t.build(left, l, bounds)
	rightIdx := t.build(right, r, bounds)
	t.nodes[idx] = node{
		leftSpace:  left,
		rightSpace: right,
		left:       leftIdx,
		right:      rightIdx,
	}
	return idx
}

// Query returns every item whose bound the ray's AABB traversal could
// reach. The result is a superset of the items the ray geometrically
// hits: callers must still test each candidate. Order is unspecified and
// duplicates are not removed (an item overlapping the split plane can
// appear in both children and thus in the result twice).
func (t *Tree[T]) Query(ray rmath.Ray) []T {
	if len(t.nodes) == 0 {
		return nil
	}
	if _, _, ok := t.space.Intersect(ray); !ok {
		return nil
	}
	var out []int32
	t.queryNode(0, ray, &out)
	result := make([]T, len(out))
	for i, idx := range out {
		result[i] = t.items[idx]
	}
	return result
}

func (t *Tree[T]) queryNode(idx int32, ray rmath.Ray, out *[]int32) {
	n := &t.nodes[idx]
	if n.leaf {
		*out = append(*out, n.itemIdx...)
		return
	}
	if _, _, ok := n.rightSpace.Intersect(ray); ok {
		t.queryNode(n.right, ray, out)
	}
	if _, _, ok := n.leftSpace.Intersect(ray); ok {
		t.queryNode(n.left, ray, out)
	}
}

// Bound returns the box enclosing every item in the tree.
func (t *Tree[T]) Bound() rmath.AABB {
	return t.space
}

// Len reports how many items the tree was built from.
func (t *Tree[T]) Len() int {
	return len(t.items)
}
