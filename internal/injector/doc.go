// Package injector implements the precache manifest injection stage: it
// materializes the service worker into the build's asset set (through a
// nested build or a verbatim copy), validates that the injection point
// occurs in the produced text exactly once, computes and serializes the
// manifest, and splices it in while keeping any companion source map
// consistent with the edit.
//
// One Plugin instance owns one injection target. Instances attach to a host
// through Attach, which picks the staged or legacy hook API at setup time,
// or hosts call Run directly as a pipeline stage.
//
// Fatal conditions (missing or ambiguous injection point, unreadable source,
// invalid configuration) are returned from Run and recorded on the
// compilation's error list; a failing nested build only records errors, so
// the outer build surfaces them through its normal reporting. Non-fatal
// conditions (ignored plugins in copy mode, repeated invocation of the same
// instance) are recorded as warnings.
package injector
