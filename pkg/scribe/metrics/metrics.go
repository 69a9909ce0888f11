// Package metrics implements observability for the reconciler: a per-update
// measurement record and a Recorder interface with an always-on in-memory
// ring buffer and an optional embedded-store recorder.
package metrics

import "time"

// Update is one reconcile cycle's measurement.
type Update struct {
	PathLabel      string
	WallNs         int64
	PlanNs         int64
	ApplyNs        int64
	Deletes        int
	Inserts        int
	SetAttributes  int
	FixAttributes  int
	CharsAdded     int
	CharsDeleted   int
	MovedChildren  int
	RangesAdded    int
	RangesDeleted  int
	RebuildSubtree int

	// RecordedAt is stamped by the caller (the Fenwick/diff-array centric
	// packages below never call time.Now() themselves so every package in
	// this module stays easy to drive from fixed-input tests).
	RecordedAt time.Time
}

// Recorder receives one Update per completed reconcile cycle.
type Recorder interface {
	Record(Update)
}

// NopRecorder discards every update.
type NopRecorder struct{}

func (NopRecorder) Record(Update) {}
