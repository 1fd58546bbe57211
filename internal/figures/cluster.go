package figures

import (
	"figextract/internal/geometry"
	"figextract/internal/pdfdoc"
)

// clusterNode is one input to the union-find merge: a vector path or an
// embedded image in Pass A, or a label-absorbed Pass-A cluster in Pass B.
type clusterNode struct {
	rect     geometry.Rect
	hasImage bool
}

// unionFind is a minimal disjoint-set structure over a fixed number of
// clusterNodes, used by Pass A's fixpoint merge and Pass B's re-cluster.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

// near reports whether a and b intersect or lie within threshold points of
// each other on both axes.
func near(a, b geometry.Rect, threshold float64) bool {
	return a.XGap(b) <= threshold && a.YGap(b) <= threshold
}

// mergeFixpoint repeatedly unions any pair of nodes within threshold of each
// other's current cluster bounds, until a full pass produces no further
// merge. Clustering is a fixpoint, not a single pass, since an early merge
// can bring two previously-distant rects within range via their combined
// bounding box. veto, when
// non-nil, blocks a merge even when the nodes are near enough.
func mergeFixpoint(nodes []clusterNode, threshold float64, veto func(a, b geometry.Rect) bool) *unionFind {
	uf := newUnionFind(len(nodes))
	bounds := make([]geometry.Rect, len(nodes))
	for i, n := range nodes {
		bounds[i] = n.rect
	}

	for {
		changed := false
		for i := 0; i < len(nodes); i++ {
			ri := uf.find(i)
			for j := i + 1; j < len(nodes); j++ {
				rj := uf.find(j)
				if ri == rj {
					continue
				}
				if !near(bounds[ri], bounds[rj], threshold) {
					continue
				}
				if veto != nil && veto(bounds[ri], bounds[rj]) {
					continue
				}
				merged := bounds[ri].Union(bounds[rj])
				uf.union(ri, rj)
				root := uf.find(ri)
				bounds[root] = merged
				changed = true
				ri = root
			}
		}
		if !changed {
			break
		}
	}
	return uf
}

// collapse groups nodes by their union-find root into visualObjects.
func collapse(nodes []clusterNode, uf *unionFind) []visualObject {
	groups := make(map[int][]int)
	for i := range nodes {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}
	out := make([]visualObject, 0, len(groups))
	for _, members := range groups {
		var rects []geometry.Rect
		hasImage := false
		for _, idx := range members {
			rects = append(rects, nodes[idx].rect)
			hasImage = hasImage || nodes[idx].hasImage
		}
		out = append(out, visualObject{Rect: geometry.UnionAll(rects), hasImage: hasImage})
	}
	return out
}

// clusterPassA is the tight first pass: only visible vector
// paths and images participate, merged at a 15pt tolerance. This is the pass
// that turns a handful of disjoint line/fill primitives into one coherent
// plot.
func clusterPassA(visiblePaths []geometry.Rect, images []pdfdoc.ImageRect) []visualObject {
	var nodes []clusterNode
	for _, r := range visiblePaths {
		nodes = append(nodes, clusterNode{rect: r})
	}
	for _, img := range images {
		nodes = append(nodes, clusterNode{rect: img.Rect, hasImage: true})
	}
	if len(nodes) == 0 {
		return nil
	}
	uf := mergeFixpoint(nodes, 15, nil)
	return collapse(nodes, uf)
}

// absorbLabels is Pass B's first half: each Pass-A
// cluster absorbs any text_rect or label caption within 15pt of it, provided
// the candidate does not intersect a strict_block (a strict block is
// confidently body text, not a stray label).
func absorbLabels(passA []visualObject, textRects []geometry.Rect, labelCaptions []Caption, strict []geometry.Rect) []visualObject {
	absorbed := make([]visualObject, len(passA))
	copy(absorbed, passA)

	candidates := make([]geometry.Rect, 0, len(textRects)+len(labelCaptions))
	candidates = append(candidates, textRects...)
	for _, c := range labelCaptions {
		candidates = append(candidates, c.Rect)
	}

	for _, cand := range candidates {
		if intersectsAny(cand, strict) {
			continue
		}
		best := -1
		for i, obj := range absorbed {
			if near(obj.Rect, cand, 15) {
				best = i
				break
			}
		}
		if best >= 0 {
			absorbed[best].Rect = absorbed[best].Rect.Union(cand)
		}
	}
	return absorbed
}

func intersectsAny(r geometry.Rect, rs []geometry.Rect) bool {
	for _, o := range rs {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}

// clusterPassB is the permissive second pass: Pass A's
// clusters first absorb nearby labels, then the resulting rects are
// re-clustered at a wider 30pt tolerance. When guardActive, a merge that
// would cross the gutter midline is vetoed: two panels in adjacent columns
// should never fuse just because their absorbed labels drift close.
func clusterPassB(passA []visualObject, textRects []geometry.Rect, labelCaptions []Caption, strict []geometry.Rect, midX float64, guardActive bool) []visualObject {
	absorbed := absorbLabels(passA, textRects, labelCaptions, strict)
	if len(absorbed) == 0 {
		return nil
	}

	nodes := make([]clusterNode, len(absorbed))
	for i, obj := range absorbed {
		nodes[i] = clusterNode{rect: obj.Rect, hasImage: obj.hasImage}
	}

	var veto func(a, b geometry.Rect) bool
	if guardActive {
		veto = func(a, b geometry.Rect) bool {
			return (a.CenterX() < midX) != (b.CenterX() < midX)
		}
	}

	uf := mergeFixpoint(nodes, 30, veto)
	return collapse(nodes, uf)
}

// clusterVisualObjects runs both passes in sequence.
func clusterVisualObjects(in pageInputs, layout layoutInfo, visiblePaths []geometry.Rect, images []pdfdoc.ImageRect) []visualObject {
	passA := clusterPassA(visiblePaths, images)
	var labels []Caption
	for _, c := range in.captions {
		if c.Kind == KindLabel {
			labels = append(labels, c)
		}
	}
	return clusterPassB(passA, in.textRects, labels, in.strict, layout.midX, layout.guardActive)
}
