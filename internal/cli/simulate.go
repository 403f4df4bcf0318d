package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/guild/internal/adapters/cli"
	"github.com/example/guild/internal/adapters/metrics"
	"github.com/example/guild/internal/adapters/scenario"
	"github.com/example/guild/internal/app"
	"github.com/example/guild/internal/core/events"
	"github.com/example/guild/internal/models"
	"github.com/example/guild/internal/ports/secondary"
	"github.com/example/guild/internal/random"
	"github.com/example/guild/internal/wire"
)

// SimulateCmd returns the simulate command
func SimulateCmd() *cobra.Command {
	var days int
	var seed int64
	var record bool
	var metricsFile string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Run the guild day by day",
		Long: `Load a scenario and run it for a number of days. Each day the best
available party is assigned to every pending quest, every assignment is
resolved, and expired quests are archived.

Runs are reproducible: pass the printed --seed to replay one exactly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}

			if !cmd.Flags().Changed("seed") {
				var err error
				seed, err = random.NewSeed()
				if err != nil {
					return err
				}
			}

			sc, err := scenario.LoadFile(args[0])
			if err != nil {
				return err
			}

			logger := wire.Logger()
			if verbose {
				logger.Mirror(os.Stderr)
			}

			sim := simulation{
				service: wire.GuildService(),
				logger:  logger,
				out:     os.Stdout,
			}
			if record || wire.Config().LedgerPath != "" {
				sim.ledger = wire.OutcomeLedger()
			}
			defer wire.Close()

			_, err = runSimulate(cmd.Context(), sim, sc, simulateOptions{
				Days:        days,
				Seed:        seed,
				RunID:       uuid.NewString(),
				MetricsFile: metricsFile,
			})
			return err
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 7, "Number of days to simulate")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Base seed (random when omitted)")
	cmd.Flags().BoolVar(&record, "record", false, "Record outcomes to the ledger even if no ledger_path is configured")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when the run ends")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Mirror the log to stderr")

	return cmd
}

type simulateOptions struct {
	Days        int
	Seed        int64
	RunID       string
	MetricsFile string
}

// simulation is everything a run needs. A nil ledger disables recording.
type simulation struct {
	service *app.GuildServiceImpl
	ledger  secondary.OutcomeLedger
	logger  app.Logger
	out     io.Writer
}

func runSimulate(ctx context.Context, sim simulation, sc *models.Scenario, opts simulateOptions) (*cliadapter.SimulateSummary, error) {
	if sim.logger == nil {
		sim.logger = app.NopLogger{}
	}
	adapter := cliadapter.NewGuildAdapter(sim.service, sim.out)
	if err := adapter.Load(ctx, sc); err != nil {
		return nil, err
	}

	d := sim.service.Dispatcher()
	subs := []events.Subscription{app.LogOutcomes(d, sim.logger)}
	defer func() {
		for _, sub := range subs {
			sub.Close()
		}
	}()

	recorder := metrics.NewRecorder()
	subs = append(subs, recorder.Attach(d)...)

	var ledgerRecorder *app.LedgerRecorder
	if sim.ledger != nil {
		run := &secondary.RunRecord{ID: opts.RunID, Scenario: sc.Name, Seed: opts.Seed}
		if err := sim.ledger.StartRun(ctx, run); err != nil {
			return nil, err
		}
		ledgerRecorder = app.NewLedgerRecorder(ctx, sim.ledger, opts.RunID, sim.logger)
		subs = append(subs, ledgerRecorder.Attach(d))
	}

	fmt.Fprintf(sim.out, "Seed: %d\n", opts.Seed)
	sim.logger.Printf("simulate: scenario=%s seed=%d days=%d run=%s", sc.Name, opts.Seed, opts.Days, opts.RunID)

	summary, err := adapter.Simulate(ctx, opts.Days, opts.Seed)
	if err != nil {
		return summary, err
	}

	if ledgerRecorder != nil {
		if err := ledgerRecorder.Err(); err != nil {
			return summary, fmt.Errorf("ledger: %w", err)
		}
		fmt.Fprintf(sim.out, "✓ Recorded %d outcomes (run %s)\n", ledgerRecorder.Recorded(), opts.RunID)
	}

	if opts.MetricsFile != "" {
		if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
			return summary, err
		}
		fmt.Fprintf(sim.out, "✓ Metrics written to %s\n", opts.MetricsFile)
	}

	sim.logger.Printf("simulate: done run=%s resolved=%d successes=%d gold=%d", opts.RunID, summary.Resolved, summary.Successes, summary.Gold)
	return summary, nil
}
