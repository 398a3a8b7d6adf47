package bvgraph

// ProgressSink is an opaque progress-reporting collaborator, mirroring
// spec.md §1's out-of-scope progress-logging facility as a pure
// dependency-injection seam: this package never implements one, only
// calls it. A nil sink is always valid and is skipped without a nil
// check at each call site (see lightUpdate and progressDone below).
type ProgressSink interface {
	// LightUpdate is called periodically (e.g. once per encoded or
	// decoded node) to report forward progress without the cost of a
	// full log line.
	LightUpdate()
	// Done marks the end of an operation. Encoder calls only LightUpdate;
	// nothing in this package calls Done.
	Done()
}

func lightUpdate(p ProgressSink) {
	if p != nil {
		p.LightUpdate()
	}
}

func progressDone(p ProgressSink) {
	if p != nil {
		p.Done()
	}
}
