// Package dotpath assembles nested data from flat field paths.
//
// A path is a dot-separated list of segments where each segment may carry one
// or more array index suffixes:
//
//	name                  -> {"name": v}
//	user.address.city     -> {"user": {"address": {"city": v}}}
//	users[0].tags[1]      -> {"users": [{"tags": [nil, v]}]}
//	matrix[1][0]          -> {"matrix": [nil, [v]]}
//	[a.b]                 -> {"a.b": v}   (bracketed path is one literal key)
//
// Objects are map[string]any and arrays are []any; missing intermediate
// containers are created on the way, and arrays are padded with nil up to the
// written index. Indexes above MaxIndex are not expanded: such a segment is
// kept as a literal key. Assemble merges into the accumulator, so keys that the path
// does not touch are preserved.
package dotpath
