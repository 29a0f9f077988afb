package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dispatchloop/corostate/wire"
)

var inspectSnapshotPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump a captured executor snapshot file as YAML",
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectSnapshotPath, "snapshot", "", "path to a binary snapshot written by 'run --snapshot-out' (required)")
	_ = inspectCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	b, err := os.ReadFile(inspectSnapshotPath)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	registry := wire.NewRegistry()
	snap, n, err := registry.DecodeExecutor(b)
	if err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("snapshot file has %d trailing bytes", len(b)-n)
	}

	out, err := wire.DumpExecutorYAML(snap)
	if err != nil {
		return fmt.Errorf("rendering YAML: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
