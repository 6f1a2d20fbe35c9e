// Package grid composes per-user-per-day cells from the raw task, leave,
// telework and holiday records of one visible window. Cells follow a fixed
// overlay precedence: a covering leave wins, then a holiday, then telework,
// then the tasks due that day. Cells are pure projections and are recomputed
// wholesale on every refresh rather than patched in place.
package grid
