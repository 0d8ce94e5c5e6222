// Package dirconf maps a directory of configuration files to a single
// in-memory tree and back.
//
// A schema (package schema) declares which files and directories make up a
// configuration and which codec reads each file. Read walks the schema in
// declaration order and returns a *Config whose root is a *tree.Map keyed by
// the schema's child names. The tree can be inspected and edited through
// its maps or by Address, then written to the directory it came from or to
// a new one.
//
// # Usage
//
//	decl := schema.Group("",
//		schema.Entry("namelists", schema.Path("namelists")),
//		schema.Entry("inputs", schema.Lazy("inputs", jules.InputFiles(
//			"initial_conditions.dat", "Loobos_1997.dat", "tile_fractions.dat"))),
//	)
//	cfg, err := dirconf.Read(decl, "runs/loobos")
//	if err != nil {
//		return err
//	}
//	addr := tree.Addr("namelists", "output", "jules_output_profile", "output_period")
//	if err := cfg.Set(addr, 3600); err != nil {
//		return err
//	}
//	err = cfg.Write("runs/loobos-hourly")
//
// Writes are planned in full before any file is touched: every leaf is
// encoded and, unless Overwrite(true) is given, every target is checked to
// not exist. A failure in planning writes nothing. I/O failures while
// writing are not rolled back.
//
// # Related Packages
//
//   - github.com/land-surface/dirconf/schema declares layouts.
//   - github.com/land-surface/dirconf/tree holds the data.
//   - github.com/land-surface/dirconf/namelist and
//     github.com/land-surface/dirconf/ascii are the file codecs.
//   - github.com/land-surface/dirconf/jules declares the JULES layout.
package dirconf
