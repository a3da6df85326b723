// Command punchtrack is the CLI for the punch tracking workflow: logging
// defects into cabinet workbooks, moving cabinets through the
// Quality↔Production hand-off queues, and inspecting the cross-cabinet
// aggregate.
package main
