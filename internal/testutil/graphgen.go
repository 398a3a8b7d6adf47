package testutil

import "sort"

// RandomArcs generates a deterministic simple directed graph over n nodes:
// no parallel arcs, no self-loops, sorted by (source, dest). avgOutdegree
// controls density. Grounded on the teacher's own approach to generating
// reproducible test input (internal/testutil.Rand), adapted here to emit
// graph arcs instead of compressor byte streams.
func RandomArcs(seed int, n int, avgOutdegree float64) [][2]uint64 {
	r := NewRand(seed)
	var arcs [][2]uint64
	seen := make(map[[2]uint64]bool)
	target := int(float64(n) * avgOutdegree)
	for len(arcs) < target && n > 1 {
		u := uint64(r.Intn(n))
		v := uint64(r.Intn(n))
		if u == v {
			continue
		}
		key := [2]uint64{u, v}
		if seen[key] {
			continue
		}
		seen[key] = true
		arcs = append(arcs, key)
	}
	sort.Slice(arcs, func(i, j int) bool {
		if arcs[i][0] != arcs[j][0] {
			return arcs[i][0] < arcs[j][0]
		}
		return arcs[i][1] < arcs[j][1]
	})
	return arcs
}

// SuccessorLists groups sorted arcs into a per-node adjacency map covering
// every node in [0, n), including nodes with no successors.
func SuccessorLists(n int, arcs [][2]uint64) [][]uint64 {
	lists := make([][]uint64, n)
	for _, a := range arcs {
		lists[a[0]] = append(lists[a[0]], a[1])
	}
	return lists
}
