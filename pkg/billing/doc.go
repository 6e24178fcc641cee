// Package billing implements the recurring membership billing engine: the
// due-date policy, the payment executor and its retry state machine, the
// admin credit sink, and the sweep that drives automatic charges across
// all users.
//
// The engine operates on full user-table snapshots behind the Store port
// and serializes every read-modify-write cycle with a process-wide lock.
package billing
