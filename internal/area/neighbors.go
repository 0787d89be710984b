package area

import (
	"fmt"
	"strconv"
	"strings"
)

var neighborOffsets = [...]int{-3, -2, -1, 1, 2, 3}

// Topology supplies "nearby" ZIP codes for a ZIP code.
type Topology struct {
	table *Table
}

// NewTopology creates a Topology over t.
func NewTopology(t *Table) *Topology {
	return &Topology{table: t}
}

// Neighbors returns the curated cluster of zip (minus zip itself, in table
// order) when one exists. Otherwise it returns the numeric neighbors at
// offsets -3..+3, skipping anything outside 00000-99999. A non-numeric ZIP
// has no neighbors.
func (t *Topology) Neighbors(zip string) []string {
	zip = strings.TrimSpace(zip)

	if i, ok := t.table.clusterByZip[zip]; ok {
		members := t.table.Clusters[i].Zips
		out := make([]string, 0, len(members))
		for _, z := range members {
			if z != zip {
				out = append(out, z)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	n, err := strconv.Atoi(zip)
	if err != nil || zip == "" || zip[0] == '-' || zip[0] == '+' {
		return nil
	}
	out := make([]string, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		v := n + off
		if v < 0 || v > 99999 {
			continue
		}
		out = append(out, fmt.Sprintf("%05d", v))
	}
	return out
}
