package testutil

// FixedTraceGenerator returns the same trace ID every time.
//
// CLI responses normally carry a fresh UUIDv7 trace_id. Tests swap in this
// generator so JSON output is byte-stable and can be compared against
// golden files.
//
// Thread-safety: FixedTraceGenerator is stateless and safe for concurrent use.
type FixedTraceGenerator struct {
	id string
}

// NewFixedTraceGenerator creates a generator returning id.
// If id is empty, Generate returns "test-trace-default".
func NewFixedTraceGenerator(id string) *FixedTraceGenerator {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceGenerator{id: id}
}

// Generate returns the fixed trace ID.
func (g *FixedTraceGenerator) Generate() string {
	return g.id
}
