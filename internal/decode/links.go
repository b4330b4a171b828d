package decode

// Adjacency is one source node with its ordered targets.
type Adjacency struct {
	Source  int
	Targets []int
}

// linkFold is the accumulator threaded through the link stream: the active
// source plus both adjacency maps built so far.
type linkFold struct {
	active   int
	declared bool
	out      map[int][]int
	in       map[int][]int
}

// step consumes one token. A negative token -(s+1) declares source s and
// resets its target list. A positive token t+1 adds the edge active -> t.
func (f *linkFold) step(offset int, v int32) error {
	if v < 0 {
		f.active = int(-int64(v) - 1)
		f.declared = true
		f.out[f.active] = []int{}
		return nil
	}
	if !f.declared {
		return &TokenError{Offset: offset, Token: v, Reason: "edge before any source declaration"}
	}
	if v == 0 {
		return &TokenError{Offset: offset, Token: v, Reason: "edge target decrements to -1"}
	}
	to := int(v) - 1
	f.out[f.active] = append(f.out[f.active], to)
	f.in[to] = append(f.in[to], f.active)
	return nil
}

// Links decodes a sentinel-delimited link stream into forward and backward
// adjacency maps. Both maps are sparse: a node never declared as a source has
// no out entry, and a node never targeted has no in entry. A source declared
// again starts an empty target list; in-links recorded under the earlier
// declaration are kept.
func Links(tokens []int32) (out, in map[int][]int, err error) {
	f := &linkFold{
		out: make(map[int][]int),
		in:  make(map[int][]int),
	}
	for i, v := range tokens {
		if err := f.step(i, v); err != nil {
			return nil, nil, err
		}
	}
	return f.out, f.in, nil
}

// EncodeLinks produces the link stream for pairs, in order. Ids must fit in
// an int32 after adding one.
func EncodeLinks(pairs []Adjacency) []int32 {
	var tokens []int32
	for _, p := range pairs {
		tokens = append(tokens, int32(-(p.Source + 1)))
		for _, t := range p.Targets {
			tokens = append(tokens, int32(t+1))
		}
	}
	return tokens
}
