// Package namelist reads and writes Fortran namelist files.
//
// A namelist file is a sequence of groups
//
//	&jules_output
//	  run_id = 'loobos',
//	  output_dir = './output',
//	/
//
// which decode to a *tree.Map of group name to a *tree.Map of parameter name
// to value. Values are typed by their lexical form: integers become int64,
// reals float64 (both e and d exponents), logicals bool, quoted strings
// string and comma or blank separated sequences []any. Repeat counts such as
// 3*0.5 are expanded and empty values decode to nil. A group name which
// appears more than once decodes to a []any of *tree.Map at the position of
// its first appearance.
//
// Parameter names are kept verbatim, so array and derived type designators
// such as x(1) or a%b are part of the key. Comments are not kept.
//
// Encoding writes the instances of a repeated group one after another, so a
// file ordered &a / &b / &a / is written back as &a / &a / &b /. The
// decoded trees of both files are equal.
//
// # Related Packages
//
//   - github.com/land-surface/dirconf/codec defines the Codec interface
//     implemented by *Codec.
//   - github.com/land-surface/dirconf/tree holds the decoded values.
package namelist
