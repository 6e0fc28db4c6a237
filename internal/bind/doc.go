// Package bind holds binding definitions: the state machine that decides
// which path operators may follow each other, and the getter, setter,
// operator-overload and function tables consulted at every step.
//
// A Binding owns an arena of Items. Each Item is one variant of a tagged
// union (Kind): a bare state with edges, an index state with tables, a bind
// state that can also redirect literal names to static sub-items, or a
// function section for ":name(args)" segments. Items reference each other
// by name while a binding is built or decoded; ResolveAllReferences turns
// names into ItemIDs once every item exists, which is what lets a function
// section refer to itself or to an ancestor.
//
// Overload lookup is a pure function over candidate signatures (Tiers,
// CallCandidates, Resolve). Candidates are ordered most specific first and
// the first hit wins.
//
// Encode and Decode implement the persisted format; see codec.go.
package bind
