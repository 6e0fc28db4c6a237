// Package syntax reads render scripts: one path statement per line.
//
//	// comments run to the end of the line
//	#asset.field[2]->owner
//	#asset.field = "red"
//	~net[$cell] += 1
//
// A path starts with a binding prefix ('#', '^' or '~') and the binding
// name, followed by steps:
//
//	.name  .{multi word}  .$var  ->name  <-name  [expr]  :fn(expr, …)
//
// Expressions are strings, integers, floats, variables and nested paths.
package syntax
