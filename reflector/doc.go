// Package reflector discovers the named properties a type exposes for
// reading and writing and caches the result for reuse.
//
// Discovery pipeline:
//  1. Collect the de-duplicated method set of the type and every embedded
//     (anonymous) struct or interface, keyed by a return/name/parameter
//     signature so that overriding and overloading stay distinguishable.
//  2. Classify accessor-shaped methods per property name and resolve
//     overload conflicts: the more specific type wins, equal bool getters
//     prefer the is form, unrelated types are recorded as ambiguous and
//     fail on invocation.
//  3. Fill the remaining property names from struct fields, unexported
//     fields included.
//
// A built Reflector is immutable and safe for unsynchronized concurrent
// reads. Factory adds the per-type compute-once cache.
package reflector
