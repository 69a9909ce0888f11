// Package reconciler is the top-level orchestrator: it owns the backing
// buffer and range cache, wires C1-C7, and is the only entry point
// frontends call. One mutex guards otherwise single-writer instance state,
// Update reconciles against the previously committed snapshot, and Read
// is a read-only accessor for observers that must never see a
// half-applied update.
package reconciler

import (
	"fmt"
	"sync"
	"time"

	"github.com/speier/scribe/pkg/scribe/applier"
	"github.com/speier/scribe/pkg/scribe/buffer"
	"github.com/speier/scribe/pkg/scribe/config"
	"github.com/speier/scribe/pkg/scribe/core"
	"github.com/speier/scribe/pkg/scribe/diff"
	"github.com/speier/scribe/pkg/scribe/internal/xlog"
	"github.com/speier/scribe/pkg/scribe/metrics"
	"github.com/speier/scribe/pkg/scribe/rangecache"
	"github.com/speier/scribe/pkg/scribe/selection"
	"github.com/speier/scribe/pkg/scribe/theme"
)

// Reconciler is the single cooperative actor driving updates. It is not safe
// for concurrent Update calls by design (one caller drives it at a time);
// the mutex below exists solely to turn a
// same-process reentrant Update (e.g. a decorator callback that tries to
// start a nested update) into ErrReentrantUpdate instead of silently
// corrupting the buffer and cache.
type Reconciler struct {
	mu     sync.Mutex
	active bool

	buf   buffer.Buffer
	cache *rangecache.Cache
	theme theme.Theme
	dec   applier.Decorators

	committed *core.EditorState

	Flags    config.Flags
	Recorder metrics.Recorder
	Log      *xlog.Logger
}

// New returns a Reconciler with an empty committed state, a fresh in-memory
// buffer and range cache, default flags, an always-on in-memory metrics
// recorder, and a disabled logger.
func New(th theme.Theme, dec applier.Decorators) *Reconciler {
	if dec == nil {
		dec = applier.NopDecorators{}
	}
	return &Reconciler{
		buf:       buffer.NewMemory(),
		cache:     rangecache.New(),
		theme:     th,
		dec:       dec,
		committed: core.NewEditorState(),
		Flags:     config.DefaultFlags(),
		Recorder:  metrics.NewMemoryRecorder(256),
		Log:       xlog.New("reconciler"),
	}
}

// Snapshot is a consistent, read-only view of the committed state, returned
// by Read.
type Snapshot struct {
	Text    string
	State   *core.EditorState
	Version uint64
}

// Read returns a snapshot of the last successfully committed state. It
// never observes a half-applied update: Update only swaps r.committed after
// the full pipeline (plan, apply, optional sanity checks) succeeds.
func (r *Reconciler) Read() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Text:    r.buf.AttributedSubstring(core.Range{Location: 0, Length: r.buf.Length()}).String(),
		State:   r.committed,
		Version: r.committed.Version,
	}
}

// Update runs one reconcile cycle: plan, apply, then the flag-gated
// diagnostics (shadow compare, invariant sanity check), committing pending
// as the new baseline only if every enabled check passes: range-cache and
// invariant failures abort the update and leave the previous buffer intact.
func (r *Reconciler) Update(pending *core.EditorState, dirty map[core.NodeKey]struct{}, marked *core.MarkedTextOperation, compositionKey core.NodeKey) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return fmt.Errorf("update: %w", core.ErrReentrantUpdate)
	}
	r.active = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
	}()

	for key := range dirty {
		if !pending.Exists(key) && !r.committed.Exists(key) {
			return core.StaleState(key)
		}
	}

	wallStart := time.Now()

	oldMapper := selection.NewMapper(r.cache, r.committed)
	captured := selection.Capture(r.committed.Selection, oldMapper)

	planStart := time.Now()
	result := diff.Plan(diff.Params{
		Prev:                       r.committed,
		Pending:                    pending,
		Dirty:                      dirty,
		Cache:                      r.cache,
		Theme:                      r.theme,
		MarkedText:                 marked,
		CompositionKey:             compositionKey,
		StabilityThreshold:         r.Flags.StabilityThreshold,
		DisableOptimizedReconciler: !r.Flags.UseOptimizedReconciler,
		StrictMode:                 r.Flags.UseStrictMode,
		DisableFenwickDelta:        !r.Flags.UseFenwickDelta,
		DisableCentralAggregation:  !r.Flags.UseCentralAggregation,
		DisableKeyedDiff:           !r.Flags.UseKeyedDiff,
		DisableBlockRebuild:        !r.Flags.UseBlockRebuild,
		DisableInsertBlockFenwick:  !r.Flags.UseInsertBlockFenwick,
		DisableDeleteBlockFenwick:  !r.Flags.UseDeleteBlockFenwick,
		DisablePrePostOnly:         !r.Flags.UsePrePostAttributesOnly,
		AttributeOnlyMaxTargets:    int(r.Flags.PrePostAttrsOnlyMaxTargets),
	})
	planNs := time.Since(planStart).Nanoseconds()

	if result.StrictModeViolation {
		return core.InvariantViolation("strict mode forbids the full-rebuild fallback path")
	}

	applyStart := time.Now()
	applier.Apply(r.buf, r.cache, pending, r.theme, r.dec, result)
	applyNs := time.Since(applyStart).Nanoseconds()

	if r.Flags.ReconcilerSanityCheck {
		violations := r.cache.VerifyInvariants(pending.Children, pending.Exists, r.buf.Length())
		if len(violations) != 0 {
			r.Log.Log("invariant violations after %s: %v", result.Tape.PathLabel, violations)
			return core.InvariantViolation(fmt.Sprintf("%v", violations))
		}
	}

	if r.Flags.UseShadowCompare {
		shadow := diff.ComposeSubtree(pending, core.Root, r.theme)
		got := r.buf.AttributedSubstring(core.Range{Location: 0, Length: r.buf.Length()})
		if shadow.String() != got.String() {
			r.Log.Log("shadow compare mismatch after %s", result.Tape.PathLabel)
			return core.InvariantViolation(fmt.Sprintf("shadow compare mismatch after %s", result.Tape.PathLabel))
		}
	}

	// If composition is active, the composing frontend owns the marked
	// range and selection reconcile is skipped entirely; pending.Selection
	// is left exactly as the caller set it.
	if compositionKey == "" {
		newMapper := selection.NewMapper(r.cache, pending)
		pending.Selection = captured.Resolve(result.Tape, newMapper)
	}

	r.committed = pending

	wallNs := time.Since(wallStart).Nanoseconds()
	if r.Flags.VerboseLogging {
		r.Log.Log("update path=%s plan_ns=%d apply_ns=%d wall_ns=%d", result.Tape.PathLabel, planNs, applyNs, wallNs)
	}

	if r.Recorder != nil {
		r.Recorder.Record(buildUpdate(result, planNs, applyNs, wallNs))
	}
	return nil
}

func buildUpdate(result diff.Result, planNs, applyNs, wallNs int64) metrics.Update {
	u := metrics.Update{
		PathLabel:     result.Tape.PathLabel,
		WallNs:        wallNs,
		PlanNs:        planNs,
		ApplyNs:       applyNs,
		RangesAdded:   len(result.NewEntries),
		RangesDeleted: len(result.PrunedKeys),
		RecordedAt:    time.Now(),
	}
	if result.Tape.PathLabel == "full-rebuild" {
		u.RebuildSubtree = 1
	}
	for _, instr := range result.Tape.Instructions {
		switch v := instr.(type) {
		case core.DeleteInstr:
			u.Deletes++
			u.CharsDeleted += v.Range.Length
			if result.Tape.PathLabel == "keyed-reorder" {
				u.MovedChildren++
			}
		case core.InsertInstr:
			u.Inserts++
			u.CharsAdded += v.Text.Len()
		case core.SetAttributesInstr:
			u.SetAttributes++
		case core.FixAttributesInstr:
			u.FixAttributes++
		}
	}
	return u
}
