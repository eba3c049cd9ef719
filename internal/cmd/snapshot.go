package cmd

import (
	"fmt"

	"github.com/jimezsa/sakani/internal/snapshot"
)

type SnapshotCmd struct {
	Diff   SnapshotDiffCmd   `cmd:"" help:"Write items not present in a previous dataset (A-B) to JSON."`
	Update SnapshotUpdateCmd `cmd:"" help:"Merge a fresh dataset into a snapshot history JSON."`
}

type SnapshotDiffCmd struct {
	New      string `name:"new" required:"" help:"Path to the fresh dataset JSON (A)."`
	Snapshot string `name:"snapshot" required:"" help:"Path to the previous dataset JSON (B). Missing file is treated as empty."`
	Out      string `name:"out" required:"" help:"Output path for the new-items dataset JSON (C)."`
	Stats    bool   `name:"stats" help:"Print comparison stats."`
}

type SnapshotUpdateCmd struct {
	Snapshot string `name:"snapshot" required:"" help:"Path to the snapshot dataset JSON (B). Missing file is treated as empty."`
	Input    string `name:"input" required:"" help:"Path to the dataset JSON to merge into the snapshot."`
	Out      string `name:"out" required:"" help:"Output path for the updated snapshot JSON."`
	Stats    bool   `name:"stats" help:"Print merge stats."`
}

func (c *SnapshotDiffCmd) Run(ctx *Context) error {
	fresh, err := snapshot.ReadDataset(c.New)
	if err != nil {
		return fmt.Errorf("read --new: %w", err)
	}
	previous, err := snapshot.ReadDatasetAllowMissing(c.Snapshot)
	if err != nil {
		return fmt.Errorf("read --snapshot: %w", err)
	}

	unseen, stats := snapshot.Diff(fresh, previous)
	if err := snapshot.WriteDataset(c.Out, unseen); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if c.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"total_new=%d total_previous=%d invalid_skipped=%d unseen_emitted=%d\n",
			stats.TotalNew,
			stats.TotalPrev,
			stats.InvalidSkipped(),
			stats.Unseen,
		)
		return err
	}

	return nil
}

func (c *SnapshotUpdateCmd) Run(ctx *Context) error {
	previous, err := snapshot.ReadDatasetAllowMissing(c.Snapshot)
	if err != nil {
		return fmt.Errorf("read --snapshot: %w", err)
	}
	input, err := snapshot.ReadDataset(c.Input)
	if err != nil {
		return fmt.Errorf("read --input: %w", err)
	}

	merged, stats := snapshot.Merge(previous, input)
	if err := snapshot.WriteDataset(c.Out, merged); err != nil {
		return fmt.Errorf("write --out: %w", err)
	}

	if c.Stats {
		_, err := fmt.Fprintf(
			ctx.Out,
			"total_previous=%d total_input=%d invalid_skipped=%d added=%d total_out=%d\n",
			stats.TotalPrev,
			stats.TotalInput,
			stats.InvalidSkipped(),
			stats.Added,
			stats.TotalOut,
		)
		return err
	}

	return nil
}
