// Package annotate holds the markup model for cabinet drawings: annotations
// drawn over rendered pages, the per-cabinet session document they persist
// in, and the binder that links annotations to punch records by serial or by
// fuzzy description match.
package annotate
