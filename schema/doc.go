// Package schema describes where each part of a configuration tree lives on
// disk and which codec reads it.
//
// A schema is a tree of *Node. A leaf node names one file and the codec for
// it; a group node names a directory and declares its children in order.
// Each child is declared in one of three ways:
//
//   - Path: a literal relative path. Whether it is a file or a directory,
//     and which codec applies, is inferred from disk when it is read.
//   - Deferred: a path plus a factory building the node. The factory is only
//     called when the read reaches that position.
//   - *Node: a node built ahead of time.
//
// A Resolver turns declarations into concrete nodes. One Resolver serves one
// read; it remembers what it resolved per tree position and is then thrown
// away, so a later read sees the filesystem afresh.
//
// # Usage
//
//	root := schema.Group("",
//		schema.Entry("namelists", schema.Path("namelists")),
//		schema.Entry("inputs", schema.Lazy("inputs", inputsFactory)),
//	)
//	reg := schema.DefaultRegistry()
//
// # Related Packages
//
//   - github.com/land-surface/dirconf walks schemas to read and write trees.
//   - github.com/land-surface/dirconf/codec defines leaf codecs.
package schema
