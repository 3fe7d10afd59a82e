package hydrograph

import (
	"fmt"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// Network is the drainage-network DAG of one hydrologic unit plus a spatial
// index over reach geometries.
type Network struct {
	Reaches map[int]*Reach
	Order   []int // topologically safe, upstream reaches first; ids ascending within a rank
	tree    *rtree.Rtree
}

// New assembles a network from reaches, indexes the geometries and orders
// the DAG. Errors on a routing cycle or a dangling downstream id.
func New(reaches []*Reach) (*Network, error) {
	n := &Network{
		Reaches: make(map[int]*Reach, len(reaches)),
		tree:    rtree.NewTree(25, 50),
	}
	for _, r := range reaches {
		if _, ok := n.Reaches[r.ID]; ok {
			return nil, fmt.Errorf("hydrograph.New: duplicate reach id %d", r.ID)
		}
		if r.Length <= 0. {
			r.Length = r.length()
		}
		n.Reaches[r.ID] = r
		if len(r.Geom) > 0 {
			n.tree.Insert(r)
		}
	}
	for _, r := range n.Reaches {
		if r.DsID >= 0 {
			if _, ok := n.Reaches[r.DsID]; !ok {
				r.DsID = -1 // downstream reach clipped off by the unit boundary
			}
		}
	}
	if err := n.buildOrder(); err != nil {
		return nil, err
	}
	return n, nil
}

// buildOrder runs Kahn's algorithm over the reach→downstream edges; the
// ready set is kept id-sorted so the ordering is deterministic.
func (n *Network) buildOrder() error {
	indeg := make(map[int]int, len(n.Reaches))
	for id := range n.Reaches {
		indeg[id] = 0
	}
	for _, r := range n.Reaches {
		if r.DsID >= 0 {
			indeg[r.DsID]++
		}
	}
	ready := make([]int, 0, len(n.Reaches))
	for id, d := range indeg {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Ints(ready)

	n.Order = make([]int, 0, len(n.Reaches))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		n.Order = append(n.Order, id)
		if ds := n.Reaches[id].DsID; ds >= 0 {
			indeg[ds]--
			if indeg[ds] == 0 {
				i := sort.SearchInts(ready, ds)
				ready = append(ready, 0)
				copy(ready[i+1:], ready[i:])
				ready[i] = ds
			}
		}
	}
	if len(n.Order) != len(n.Reaches) {
		return fmt.Errorf("hydrograph.buildOrder: cycle detected, %d of %d reaches ordered", len(n.Order), len(n.Reaches))
	}
	return nil
}

// Intersecting returns the reaches whose bounds intersect b, id-ascending.
func (n *Network) Intersecting(b *geom.Bounds) []*Reach {
	hits := n.tree.SearchIntersect(b)
	out := make([]*Reach, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*Reach))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
