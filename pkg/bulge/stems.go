package bulge

import (
	"cmp"
	"slices"

	"github.com/matzehuels/rnagraph/pkg/pairs"
)

// stemRegion is a helix [a, b, c, d]: a..b pairs antiparallel with c..d.
type stemRegion [4]int

// bulgeRegion is a maximal run of unpaired positions, inclusive.
type bulgeRegion [2]int

// extractRegions partitions the sorted tuples into helices and unpaired
// runs. Each helix is reported once even though both of its strands are
// walked. Zero-length regions between adjacent helices produce no output
// here; the stem linking step recovers them.
func extractRegions(tuples []pairs.Tuple) ([]stemRegion, []bulgeRegion) {
	ts := slices.Clone(tuples)
	slices.SortFunc(ts, func(x, y pairs.Tuple) int { return cmp.Compare(x.Pos, y.Pos) })

	var stems []stemRegion
	var bulges []bulgeRegion
	seen := make(map[stemRegion]bool)
	for i := 0; i < len(ts); {
		j := i
		if ts[i].Partner == pairs.Unpaired {
			for j+1 < len(ts) && ts[j+1].Partner == pairs.Unpaired {
				j++
			}
			bulges = append(bulges, bulgeRegion{ts[i].Pos, ts[j].Pos})
			i = j + 1
			continue
		}
		for j+1 < len(ts) && stacks(ts[j], ts[j+1]) {
			j++
		}
		first, last := ts[i], ts[j]
		var s stemRegion
		if first.Partner > first.Pos {
			s = stemRegion{first.Pos, last.Pos, last.Partner, first.Partner}
		} else {
			s = stemRegion{last.Partner, first.Partner, first.Pos, last.Pos}
		}
		if !seen[s] {
			seen[s] = true
			stems = append(stems, s)
		}
		i = j + 1
	}
	return stems, bulges
}

// stacks reports whether q continues the helix that p belongs to: both are
// paired on the same side, positions advance by one and partners retreat by
// one.
func stacks(p, q pairs.Tuple) bool {
	if p.Partner == pairs.Unpaired || q.Partner == pairs.Unpaired {
		return false
	}
	if q.Pos != p.Pos+1 || q.Partner != p.Partner-1 {
		return false
	}
	return (p.Partner > p.Pos) == (q.Partner > q.Pos)
}
