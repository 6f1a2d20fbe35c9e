// Package roster derives the display grouping of the planning grid: a
// synthetic management group first, then one bucket per service, then the
// users without a service. Groups are pure projections of the user and
// service snapshots; the resolver holds no state beyond its configuration.
package roster
