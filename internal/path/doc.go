// Package path renders binding paths into graph-IR nodes.
//
// A path is a binding prefix followed by steps:
//
//	#asset.color->owner[2]:describe($who)
//
// Each step is checked against the binding's item graph (the step's
// operator must be an outgoing edge of the current item) and then rendered
// through a getter, function or static redirect found on the item it
// lands on. A whole path may be wrapped by the binding's override hook,
// in which case its body moves into a callback and the values it captured
// are pushed across the thread boundary.
//
// Render failures never panic. In lenient mode they are reported to the
// diagnostic sink and the path value becomes the Empty placeholder; in
// strict mode the first failure is returned as a *diag.Fault.
package path
