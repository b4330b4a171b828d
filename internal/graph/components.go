package graph

import "sort"

// unionFind is a disjoint-set over node ids with path compression and
// union by rank.
type unionFind struct {
	parent map[int]int
	rank   map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[int]int),
		rank:   make(map[int]int),
	}
}

func (uf *unionFind) find(x int) int {
	p, ok := uf.parent[x]
	if !ok {
		uf.parent[x] = x
		return x
	}
	if p != x {
		uf.parent[x] = uf.find(p)
	}
	return uf.parent[x]
}

func (uf *unionFind) union(x, y int) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
}

// Components partitions the nodes into weakly connected components. Each
// component is sorted ascending; components are ordered by descending size,
// then by smallest member.
func (d *Dataset) Components() [][]int {
	uf := newUnionFind()
	for _, id := range d.nodeIDs() {
		uf.find(id)
	}
	for src, targets := range d.out {
		for _, t := range targets {
			uf.union(src, t)
		}
	}

	groups := make(map[int][]int)
	for _, id := range d.nodeIDs() {
		root := uf.find(id)
		groups[root] = append(groups[root], id)
	}

	comps := make([][]int, 0, len(groups))
	for _, members := range groups {
		comps = append(comps, members)
	}
	sort.Slice(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})
	return comps
}

// Degree is the in and out degree of one node.
type Degree struct {
	ID  int
	In  int
	Out int
}

// Degrees returns the degree of every node in ascending id order.
func (d *Dataset) Degrees() []Degree {
	ids := d.nodeIDs()
	degs := make([]Degree, len(ids))
	for i, id := range ids {
		degs[i] = Degree{ID: id, In: len(d.in[id]), Out: len(d.out[id])}
	}
	return degs
}
