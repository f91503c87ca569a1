package datastructure

import (
	"testing"
)

func TestMinHeapExtractOrder(t *testing.T) {
	testCases := []struct {
		name  string
		d     int
		ranks []float64
		want  []string
	}{
		{
			name:  "binary heap distinct ranks",
			d:     2,
			ranks: []float64{5, 1, 4, 2, 3},
			want:  []string{"b", "d", "e", "c", "a"},
		},
		{
			name:  "four-ary heap ties keep insertion order",
			d:     4,
			ranks: []float64{2, 1, 2, 1, 2, 1},
			want:  []string{"b", "d", "f", "a", "c", "e"},
		},
		{
			name:  "all equal ranks",
			d:     2,
			ranks: []float64{7, 7, 7, 7, 7, 7, 7},
			want:  []string{"a", "b", "c", "d", "e", "f", "g"},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			h := NewdAryHeap[string](tt.d)
			for i, r := range tt.ranks {
				h.Insert(NewPriorityQueueNode(r, string(rune('a'+i))))
			}

			got := make([]string, 0, len(tt.ranks))
			for !h.IsEmpty() {
				node, err := h.ExtractMin()
				if err != nil {
					t.Fatalf("err: %v", err)
				}
				got = append(got, node.GetItem())
			}

			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("extract order %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMinHeapEmpty(t *testing.T) {
	h := NewFourAryHeap[int]()
	if _, err := h.ExtractMin(); err != ErrHeapEmpty {
		t.Errorf("err %v, want %v", err, ErrHeapEmpty)
	}
	h.Insert(NewPriorityQueueNode(3.0, 1))
	if _, err := h.ExtractMin(); err != nil {
		t.Fatalf("err: %v", err)
	}
	if !h.IsEmpty() || h.Size() != 0 {
		t.Errorf("heap size %d after draining, want 0", h.Size())
	}
}
