// Package trace is the structured event log of the binding pipeline.
//
// Tracing is off unless --trace is given:
//
//	synapse render --trace=- --trace-level=detail script.syn
//
// Events are grouped by scope, from coarse to fine: driver (one CLI
// command), pass (load, parse, link, render), binding (per binding
// definition or decode) and path (per rendered path). The level decides
// how deep the log goes.
//
// A tracer travels through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "render", 0)
//	defer sp.End("")
package trace
