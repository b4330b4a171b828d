package graph

import "math"

// PageRankOptions configures the iterative PageRank algorithm.
type PageRankOptions struct {
	Damping       float64 // damping factor; typically 0.85
	Epsilon       float64 // convergence threshold
	MaxIterations int     // upper bound on iterations
}

// DefaultPageRankOptions returns damping 0.85, epsilon 1e-6 and at most 100
// iterations.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Damping:       0.85,
		Epsilon:       1e-6,
		MaxIterations: 100,
	}
}

// PageRank scores every node by the rank flowing along out-links. Nodes
// with no out-links spread their rank uniformly. Duplicate edges count once
// per occurrence. Scores sum to approximately 1.
func (d *Dataset) PageRank(opts PageRankOptions) map[int]float64 {
	ids := d.nodeIDs()
	n := len(ids)
	rank := make(map[int]float64, n)
	if n == 0 {
		return rank
	}

	nf := float64(n)
	base := (1.0 - opts.Damping) / nf
	for _, id := range ids {
		rank[id] = 1.0 / nf
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		var danglingSum float64
		for _, id := range ids {
			if len(d.out[id]) == 0 {
				danglingSum += rank[id]
			}
		}
		danglingShare := opts.Damping * danglingSum / nf

		next := make(map[int]float64, n)
		for _, id := range ids {
			next[id] = base + danglingShare
		}
		// Walk the forward map so in-links left over from a redeclared
		// source carry no rank.
		for u, targets := range d.out {
			if len(targets) == 0 {
				continue
			}
			share := opts.Damping * rank[u] / float64(len(targets))
			for _, v := range targets {
				next[v] += share
			}
		}

		maxDelta := 0.0
		for _, id := range ids {
			maxDelta = math.Max(maxDelta, math.Abs(next[id]-rank[id]))
		}
		rank = next
		if maxDelta < opts.Epsilon {
			break
		}
	}
	return rank
}
