package decode

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLinks_Example(t *testing.T) {
	t.Parallel()

	out, in, err := Links([]int32{-1, 2, 3, -2, 1})
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	wantOut := map[int][]int{0: {1, 2}, 1: {0}}
	wantIn := map[int][]int{0: {1}, 1: {0}, 2: {0}}
	if diff := cmp.Diff(wantOut, out); diff != "" {
		t.Errorf("out mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantIn, in); diff != "" {
		t.Errorf("in mismatch (-want +got):\n%s", diff)
	}
}

func TestLinks_DeclaredWithoutEdges(t *testing.T) {
	t.Parallel()

	out, in, err := Links([]int32{-1, -3, 1, -5})
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	for _, id := range []int{0, 4} {
		targets, ok := out[id]
		if !ok {
			t.Fatalf("out[%d] missing, want empty entry", id)
		}
		if len(targets) != 0 {
			t.Errorf("out[%d] = %v, want empty", id, targets)
		}
	}
	if _, ok := out[1]; ok {
		t.Errorf("out[1] present, want absent for undeclared node")
	}
	if _, ok := in[2]; ok {
		t.Errorf("in[2] present, want absent for untargeted node")
	}
	if diff := cmp.Diff([]int{2}, in[0]); diff != "" {
		t.Errorf("in[0] mismatch (-want +got):\n%s", diff)
	}
}

func TestLinks_RedeclarationResetsTargets(t *testing.T) {
	t.Parallel()

	out, in, err := Links([]int32{-1, 2, -2, 3, -1, 4})
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if diff := cmp.Diff([]int{3}, out[0]); diff != "" {
		t.Errorf("out[0] mismatch (-want +got):\n%s", diff)
	}
	// In-links recorded before the reset remain.
	if diff := cmp.Diff([]int{0}, in[1]); diff != "" {
		t.Errorf("in[1] mismatch (-want +got):\n%s", diff)
	}
}

func TestLinks_Empty(t *testing.T) {
	t.Parallel()
	out, in, err := Links(nil)
	if err != nil {
		t.Fatalf("Links(nil): %v", err)
	}
	if len(out) != 0 || len(in) != 0 {
		t.Errorf("Links(nil) = %v, %v, want empty maps", out, in)
	}
}

func TestLinks_MinInt32Source(t *testing.T) {
	t.Parallel()
	out, _, err := Links([]int32{math.MinInt32, 1})
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if diff := cmp.Diff([]int{0}, out[math.MaxInt32]); diff != "" {
		t.Errorf("out[MaxInt32] mismatch (-want +got):\n%s", diff)
	}
}

func TestLinks_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tokens     []int32
		wantOffset int
		wantToken  int32
	}{
		{"edge before source", []int32{2, -1}, 0, 2},
		{"zero token first", []int32{0}, 0, 0},
		{"zero token target", []int32{-1, 2, 0}, 2, 0},
		{"zero after redeclare", []int32{-1, -2, 0, 1}, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, in, err := Links(tt.tokens)
			if !errors.Is(err, ErrDataMalformed) {
				t.Fatalf("Links error = %v, want ErrDataMalformed", err)
			}
			var te *TokenError
			if !errors.As(err, &te) {
				t.Fatalf("Links error %T is not *TokenError", err)
			}
			if te.Offset != tt.wantOffset || te.Token != tt.wantToken {
				t.Errorf("TokenError = {Offset:%d Token:%d}, want {Offset:%d Token:%d}",
					te.Offset, te.Token, tt.wantOffset, tt.wantToken)
			}
			if out != nil || in != nil {
				t.Errorf("Links returned partial maps on error")
			}
		})
	}
}

func TestLinks_RoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		const nodes = 40
		order := rng.Perm(nodes)[:1+rng.IntN(nodes)]

		var pairs []Adjacency
		wantIn := make(map[int][]int)
		edges := 0
		for _, src := range order {
			targets := make([]int, rng.IntN(6))
			for i := range targets {
				targets[i] = rng.IntN(nodes)
				wantIn[targets[i]] = append(wantIn[targets[i]], src)
			}
			edges += len(targets)
			pairs = append(pairs, Adjacency{Source: src, Targets: targets})
		}

		tokens := EncodeLinks(pairs)
		out, in, err := Links(tokens)
		if err != nil {
			t.Fatalf("trial %d: Links: %v", trial, err)
		}

		if len(out) != len(pairs) {
			t.Errorf("trial %d: %d sources decoded, want %d", trial, len(out), len(pairs))
		}
		gotEdges := 0
		for _, p := range pairs {
			if diff := cmp.Diff(p.Targets, out[p.Source]); diff != "" {
				t.Errorf("trial %d: out[%d] mismatch (-want +got):\n%s", trial, p.Source, diff)
			}
			gotEdges += len(out[p.Source])
		}
		if gotEdges != edges {
			t.Errorf("trial %d: %d edges decoded, want %d", trial, gotEdges, edges)
		}
		if diff := cmp.Diff(wantIn, in); diff != "" {
			t.Errorf("trial %d: in mismatch (-want +got):\n%s", trial, diff)
		}
	}
}
