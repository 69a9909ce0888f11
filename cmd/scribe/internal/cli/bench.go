package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/speier/scribe/internal/testdoc"
	"github.com/speier/scribe/pkg/scribe/applier"
	"github.com/speier/scribe/pkg/scribe/metrics"
	"github.com/speier/scribe/pkg/scribe/reconciler"
)

var (
	benchIterations int
	benchDBPath     string
	benchDriver     string
)

// benchStore is what both embedded-store recorders offer beyond
// metrics.Recorder: a way to read back what was just persisted, and to
// close the underlying handle. bench drives either one through this
// interface so the scenario-replay and summary logic stays driver-agnostic.
type benchStore interface {
	metrics.Recorder
	Recent(limit int) ([]metrics.Update, error)
	Close() error
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run scripted editing scenarios in a loop and record timing metrics",
	Long: `bench replays the same scripted editing scenarios --iterations times
against a fresh reconciler each pass, persisting a metrics.Update per
reconcile cycle to an embedded-store recorder (bbolt or sqlite, chosen with
--driver) so results survive across bench invocations, then prints a
summary table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := openBenchStore(benchDriver, benchDBPath)
		if err != nil {
			return fmt.Errorf("bench: %w", err)
		}
		defer rec.Close()

		for i := 0; i < benchIterations; i++ {
			runAllScenarios(rec)
		}

		recent, err := rec.Recent(benchIterations * scenarioStepCount())
		if err != nil {
			return fmt.Errorf("bench: %w", err)
		}
		printSummary(recent)
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 20, "how many times to replay every scenario")
	benchCmd.Flags().StringVar(&benchDBPath, "db", "scribe-bench.db", "embedded database path for persisted metrics")
	benchCmd.Flags().StringVar(&benchDriver, "driver", "bolt", "embedded store driver for persisted metrics: bolt or sqlite")
}

// openBenchStore opens the embedded-store recorder named by driver. Both
// bbolt and sqlite fill the same role here (a queryable history of bench
// runs across process invocations); which one a given bench run uses is a
// deployment choice, not a behavioral one.
func openBenchStore(driver, path string) (benchStore, error) {
	switch driver {
	case "bolt", "":
		return metrics.OpenBoltRecorder(path)
	case "sqlite":
		return metrics.OpenSQLRecorder(path)
	default:
		return nil, fmt.Errorf("unknown --driver %q (want bolt or sqlite)", driver)
	}
}

func scenarioStepCount() int {
	total := 0
	for _, s := range testdoc.Scenarios() {
		total += 1 + len(s.Steps) // one hydrate update plus each scripted step
	}
	return total
}

func runAllScenarios(rec metrics.Recorder) {
	for _, scen := range testdoc.Scenarios() {
		r := reconciler.New(nil, applier.NopDecorators{})
		r.Recorder = rec
		_ = r.Update(scen.Hydrate, allKeys(scen.Hydrate), nil, "")
		for _, step := range scen.Steps {
			_ = r.Update(step.Pending, step.Dirty, step.Marked, step.CompositionKey)
		}
	}
}

func printSummary(updates []metrics.Update) {
	byPath := map[string][]metrics.Update{}
	for _, u := range updates {
		byPath[u.PathLabel] = append(byPath[u.PathLabel], u)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, pad("path", 24)+"\tcount\tavg wall ns\tdeletes\tinserts\tset_attrs")
	for path, us := range byPath {
		var wallSum int64
		var deletes, inserts, setAttrs int
		for _, u := range us {
			wallSum += u.WallNs
			deletes += u.Deletes
			inserts += u.Inserts
			setAttrs += u.SetAttributes
		}
		avg := wallSum / int64(len(us))
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", pad(path, 24), len(us), avg, deletes, inserts, setAttrs)
	}
	w.Flush()
}

// pad right-pads s to width display columns, using go-runewidth so wide
// (e.g. CJK) path labels still line up in the table.
func pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
