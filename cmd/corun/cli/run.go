package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	coroutine "github.com/dispatchloop/corostate"
	"github.com/dispatchloop/corostate/examples"
	"github.com/dispatchloop/corostate/scenario"
	"github.com/dispatchloop/corostate/wire"
)

var (
	runScenarioPath string
	runMaxTicks     int
	runSnapshotOut  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a scenario's threads and tick them to completion",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runScenarioPath, "scenario", "", "path to a scenario YAML file (required)")
	runCmd.Flags().IntVar(&runMaxTicks, "max-ticks", 10000, "safety cap on the number of ticks to drive")
	runCmd.Flags().StringVar(&runSnapshotOut, "snapshot-out", "", "if set, capture the executor and write a binary snapshot here after the first tick that leaves a thread alive")
	_ = runCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := scenario.Load(runScenarioPath)
	if err != nil {
		return err
	}

	exec := coroutine.NewExecutor()
	if err := cfg.Build(exec); err != nil {
		return err
	}

	tick := cfg.Tick
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}

	var snapshotTaken bool
	for i := 0; i < runMaxTicks; i++ {
		alive, tickErr := exec.Tick(tick)
		if tickErr != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "fault: %v\n", tickErr)
		}
		if alive == 0 {
			break
		}
		if runSnapshotOut != "" && !snapshotTaken {
			if err := writeSnapshot(exec); err != nil {
				return err
			}
			snapshotTaken = true
		}
	}

	for _, th := range exec.Threads() {
		status := th.Status()
		if value, ok := th.GetResult(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "thread %d [%v]: %s result=%v\n", th.Serial(), th.Tag(), status, value)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "thread %d [%v]: %s\n", th.Serial(), th.Tag(), status)
		}
	}
	return nil
}

func writeSnapshot(exec *coroutine.CoroutineExecutor) error {
	genRegistry := coroutine.NewGeneratorRegistry()
	if err := examples.Register(genRegistry); err != nil {
		return fmt.Errorf("registering generators: %w", err)
	}
	engine := coroutine.NewSnapshotEngine(genRegistry)
	snap, err := engine.CaptureExecutor(exec)
	if err != nil {
		return fmt.Errorf("capturing snapshot: %w", err)
	}
	wireRegistry := wire.NewRegistry()
	b, err := wireRegistry.EncodeExecutor(nil, snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return os.WriteFile(runSnapshotOut, b, 0o644)
}
