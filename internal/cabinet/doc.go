// Package cabinet keeps the cross-cabinet aggregate in SQLite: per-cabinet
// punch counts and status, the project registry, category occurrence
// statistics, and the recently-opened-projects cache.
package cabinet
