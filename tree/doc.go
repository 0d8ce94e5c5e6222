// Package tree provides the in-memory shape of a configuration: an ordered
// map of variants and flat addresses into it.
//
// A configuration tree is a *Map whose values are themselves *Map (groups,
// namelist groups), []any (namelist lists and repeated namelist groups) or
// leaf values: int64, float64, bool, string, nil, []byte or a codec specific
// payload. Keys keep insertion order so that reads reproduce schema order and
// writes reproduce file order.
//
// # Usage
//
//	m := tree.NewMap()
//	tree.Set(m, tree.Addr("namelists", "output", "jules_output", "output_dir"), "./out")
//	v, err := tree.Get(m, tree.Addr("namelists", "output"))
//
// Addresses may also be parsed from JSONPath-like text:
//
//	a, err := tree.ParseAddress("namelists.output['jules_output'].output_dir")
//
// # Related Packages
//
//   - github.com/land-surface/dirconf/schema describes where each branch of a
//     tree lives on disk.
//   - github.com/land-surface/dirconf reads and writes trees.
package tree
