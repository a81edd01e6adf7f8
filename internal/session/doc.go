// Package session owns the lifecycle of the single inference engine:
// selection, asynchronous load, ready and reset. It is structured into small
// files by concern:
//
//   - controller.go: Controller type, constructor, Select and getters.
//   - config.go: Config and package defaults.
//   - types.go: State, Snapshot and the internal engineSession.
//   - load.go: Load, LoadOp and the generation-checked completion path.
//   - reset.go: Reset, session release (drain then close) and Close.
//   - lease.go: Acquire/Lease, the non-owning Ready reference used by chat.
//   - errors.go: rejection sentinels and IsModelNotFound.
//   - events.go, eventpub_memory.go, broadcast.go: observer plumbing.
//   - metrics.go: Prometheus collectors.
//   - status_report.go: Snapshot/Status projections.
//
// Every asynchronous callback (progress, load completion) is tagged with the
// generation that started it and is applied only while that generation is
// still current. Reset and a superseding Load bump the generation, which is how
// in-flight work is "cancelled" without preempting the engine.
package session
