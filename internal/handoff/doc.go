// Package handoff persists the Quality↔Production hand-off queues in
// SQLite. Cabinets travel forward (quality_to_production) when inspection
// finds defects and back (production_to_quality) once rework is done, each
// direction with its own small state machine.
package handoff
