package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jimezsa/sakani/internal/config"
	"github.com/jimezsa/sakani/internal/models"
	"github.com/jimezsa/sakani/internal/snapshot"
)

func TestApplyCategoriesAllKeepsSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.MarketUnitRent = false

	got, err := applyCategories(settings, "all")
	if err != nil {
		t.Fatalf("applyCategories() error = %v", err)
	}
	if got != settings {
		t.Fatalf("applyCategories() = %+v, want settings unchanged", got)
	}
}

func TestApplyCategoriesNarrowsSelection(t *testing.T) {
	got, err := applyCategories(config.DefaultSettings(), "overview, projects_readymade")
	if err != nil {
		t.Fatalf("applyCategories() error = %v", err)
	}

	if !got.Overview || !got.ProjectsReadymade {
		t.Fatalf("requested categories not enabled: %+v", got)
	}
	if got.MegaProjects || got.ProjectsUnderConstruction || got.MarketUnitBuy || got.MarketLandsBuy || got.MarketUnitRent {
		t.Fatalf("unrequested categories still enabled: %+v", got)
	}
}

func TestApplyCategoriesRejectsUnknown(t *testing.T) {
	_, err := applyCategories(config.DefaultSettings(), "overview,villas")
	if err == nil {
		t.Fatal("applyCategories() error = nil, want unknown category error")
	}
	if !strings.Contains(err.Error(), "villas") {
		t.Fatalf("error %q does not name the unknown category", err)
	}
}

func TestCollectCmdApplySettingsOverrides(t *testing.T) {
	cmd := &CollectCmd{
		Categories:    "all",
		TestRun:       true,
		NoConcurrency: true,
		Workers:       7,
		Retries:       2,
		PauseMinutes:  9,
	}

	got, err := cmd.applySettings(config.DefaultSettings())
	if err != nil {
		t.Fatalf("applySettings() error = %v", err)
	}
	if !got.TestRun {
		t.Fatal("TestRun not applied")
	}
	if got.UseConcurrency {
		t.Fatal("NoConcurrency not applied")
	}
	if got.MaxWorkers != 7 || got.MaxRetries != 2 || got.PauseMinutes != 9 {
		t.Fatalf("numeric overrides not applied: %+v", got)
	}
}

func TestSnapshotDiffCmdWritesNewItems(t *testing.T) {
	dir := t.TempDir()
	newPath := filepath.Join(dir, "new.json")
	snapPath := filepath.Join(dir, "snapshot.json")
	outPath := filepath.Join(dir, "out.json")

	fresh := models.NewDataset()
	fresh.ProjectsReadymade = []models.Item{
		{"project_id": "100"},
		{"project_id": "200"},
	}
	if err := snapshot.WriteDataset(newPath, fresh); err != nil {
		t.Fatalf("WriteDataset(new) error = %v", err)
	}

	previous := models.NewDataset()
	previous.ProjectsReadymade = []models.Item{{"project_id": "100"}}
	if err := snapshot.WriteDataset(snapPath, previous); err != nil {
		t.Fatalf("WriteDataset(snapshot) error = %v", err)
	}

	var out bytes.Buffer
	cmd := &SnapshotDiffCmd{New: newPath, Snapshot: snapPath, Out: outPath, Stats: true}
	if err := cmd.Run(&Context{Out: &out}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	unseen, err := snapshot.ReadDataset(outPath)
	if err != nil {
		t.Fatalf("ReadDataset(out) error = %v", err)
	}
	if len(unseen.ProjectsReadymade) != 1 {
		t.Fatalf("len(unseen.ProjectsReadymade) = %d, want 1", len(unseen.ProjectsReadymade))
	}
	if unseen.ProjectsReadymade[0]["project_id"] != "200" {
		t.Fatalf("unseen project = %v, want 200", unseen.ProjectsReadymade[0]["project_id"])
	}
	if !strings.Contains(out.String(), "unseen_emitted=1") {
		t.Fatalf("stats output %q missing unseen count", out.String())
	}
}

func TestSnapshotDiffCmdMissingSnapshotTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	newPath := filepath.Join(dir, "new.json")
	outPath := filepath.Join(dir, "out.json")

	fresh := models.NewDataset()
	fresh.MarketUnitBuy = []models.Item{{"unit_id": "9"}}
	if err := snapshot.WriteDataset(newPath, fresh); err != nil {
		t.Fatalf("WriteDataset(new) error = %v", err)
	}

	cmd := &SnapshotDiffCmd{New: newPath, Snapshot: filepath.Join(dir, "absent.json"), Out: outPath}
	if err := cmd.Run(&Context{Out: bytes.NewBuffer(nil)}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	unseen, err := snapshot.ReadDataset(outPath)
	if err != nil {
		t.Fatalf("ReadDataset(out) error = %v", err)
	}
	if len(unseen.MarketUnitBuy) != 1 {
		t.Fatalf("len(unseen.MarketUnitBuy) = %d, want 1", len(unseen.MarketUnitBuy))
	}
}
