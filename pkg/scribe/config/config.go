// Package config is the reconciler's feature-flag layer: a YAML file
// loaded into a Flags struct, with an optional fsnotify watch for
// hot-reload between updates.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Flags is the Go struct form of the reconciler's feature flags. Zero values
// match the package defaults, except for the fast-path toggles below, whose
// zero value would silently disable every fast path; DefaultFlags turns
// those back on explicitly.
type Flags struct {
	// UseOptimizedReconciler routes updates through the classifier's fast
	// paths at all; off forces every update through the slow full-rebuild
	// path regardless of what the other toggles below say.
	UseOptimizedReconciler bool `yaml:"use_optimized_reconciler"`

	// UseStrictMode forbids the full-rebuild fallback: an update that can't
	// classify into a fast path is rejected with an error instead of
	// silently recomposing the whole document.
	UseStrictMode bool `yaml:"use_strict_mode"`

	// UseFenwickDelta gates the single-text-edit path, which shifts only
	// what follows the edit via a Fenwick-indexed delta rather than
	// recomposing the node's subtree.
	UseFenwickDelta bool `yaml:"use_fenwick_delta"`

	// UseCentralAggregation gates the attribute-only path, which
	// accumulates every dirty node's SetAttributes instructions and
	// finalizes them with one shared FixAttributes pass.
	UseCentralAggregation bool `yaml:"use_central_aggregation"`

	// UseKeyedDiff gates the LIS-based minimal-move reorder planner; off
	// always rebuilds a changed parent's affected child range wholesale.
	UseKeyedDiff bool `yaml:"use_keyed_diff"`

	// UseBlockRebuild gates the splice/reorder classifier as a whole (the
	// single-changed-parent path feeding both keyed-reorder and splice);
	// off skips straight to full-rebuild for any structural change.
	UseBlockRebuild bool `yaml:"use_block_rebuild"`

	// UseInsertBlockFenwick gates the subtree-composed single-insert splice
	// case; off treats a pure insertion like any other structural change
	// that doesn't classify, falling through to full-rebuild.
	UseInsertBlockFenwick bool `yaml:"use_insert_block_fenwick"`

	// UseDeleteBlockFenwick is UseInsertBlockFenwick's symmetric case for a
	// pure deletion.
	UseDeleteBlockFenwick bool `yaml:"use_delete_block_fenwick"`

	// UsePrePostAttributesOnly gates the pre/post-only path (a single
	// node's preamble and/or postamble changed, text and children did not).
	UsePrePostAttributesOnly bool `yaml:"use_pre_post_attributes_only"`

	// UseShadowCompare re-composes the whole document after every update
	// and diffs it against the incrementally-applied buffer, surfacing any
	// divergence as an error instead of silently trusting the fast path.
	UseShadowCompare bool `yaml:"use_shadow_compare"`

	// ReconcilerSanityCheck runs rangecache.Cache.VerifyInvariants after
	// every update and turns any violation into an error.
	ReconcilerSanityCheck bool `yaml:"reconciler_sanity_check"`

	// VerboseLogging writes one structured line per update to the
	// reconciler's logger (path label, timings, instruction counts),
	// independent of ReconcilerSanityCheck/UseShadowCompare's own
	// failure-only logging.
	VerboseLogging bool `yaml:"verbose_logging"`

	// PrePostAttrsOnlyMaxTargets caps how many dirty keys the
	// attribute-only path will patch individually before it bails to the
	// next classifier; <= 0 means unlimited.
	PrePostAttrsOnlyMaxTargets uint32 `yaml:"pre_post_attrs_only_max_targets"`

	// StabilityThreshold overrides keyeddiff.DefaultStabilityThreshold; 0
	// means "use the package default".
	StabilityThreshold float64 `yaml:"stability_threshold"`
}

// DefaultFlags returns the package defaults: every fast path enabled, every
// debug-only toggle off.
func DefaultFlags() Flags {
	return Flags{
		UseOptimizedReconciler:     true,
		UseStrictMode:              false,
		UseFenwickDelta:            true,
		UseCentralAggregation:      true,
		UseKeyedDiff:               true,
		UseBlockRebuild:            true,
		UseInsertBlockFenwick:      true,
		UseDeleteBlockFenwick:      true,
		UsePrePostAttributesOnly:   true,
		UseShadowCompare:           false,
		ReconcilerSanityCheck:      false,
		VerboseLogging:             false,
		PrePostAttrsOnlyMaxTargets: 0,
		StabilityThreshold:         0.10,
	}
}

// Load reads path and merges it over DefaultFlags; a missing file returns
// the defaults unchanged.
func Load(path string) (Flags, error) {
	flags := DefaultFlags()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return flags, nil
		}
		return flags, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &flags); err != nil {
		return flags, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return flags, nil
}

// Loader holds the most recently loaded Flags and lets a caller poll or
// watch for reloads. It does not itself touch the reconciler: the caller is
// expected to swap in the new Flags only between updates, since the
// reconciler reads flags once per update.
type Loader struct {
	mu    sync.RWMutex
	path  string
	flags Flags
}

// NewLoader loads path immediately and returns a Loader wrapping it.
func NewLoader(path string) (*Loader, error) {
	flags, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Loader{path: path, flags: flags}, nil
}

// Flags returns the most recently loaded snapshot.
func (l *Loader) Flags() Flags {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.flags
}

// Reload re-reads the loader's path and swaps in the new Flags, returning
// them. Errors leave the previous Flags in place.
func (l *Loader) Reload() (Flags, error) {
	flags, err := Load(l.path)
	if err != nil {
		return l.Flags(), err
	}
	l.mu.Lock()
	l.flags = flags
	l.mu.Unlock()
	return flags, nil
}
