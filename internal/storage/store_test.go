package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/experiment"
)

func runOnce(t *testing.T, cfg *config.Config) *dynamo.Result {
	t.Helper()
	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "runs"))
	cfg := config.DefaultConfig()
	cfg.Steps = 30
	res := runOnce(t, cfg)

	id, err := store.Save(cfg, res)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != id || meta.Mode != "collision" || meta.StepsTaken != 30 || meta.Resolver != "elastic" {
		t.Errorf("metadata %+v", meta)
	}
	if diff := cmp.Diff(res.Metrics, meta.Metrics); diff != "" {
		t.Errorf("metrics (-want +got):\n%s", diff)
	}

	frames, err := store.LoadFrames(id)
	if err != nil {
		t.Fatalf("LoadFrames: %v", err)
	}
	if diff := cmp.Diff(res.Snapshots, frames, cmp.AllowUnexported(dynamo.Particle{})); diff != "" {
		t.Errorf("frames (-want +got):\n%s", diff)
	}

	loaded, err := store.LoadConfig(id)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	runs, err := store.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: %v, %v", runs, err)
	}

	cfg := config.DefaultConfig()
	cfg.Steps = 5
	res := runOnce(t, cfg)
	first, err := store.Save(cfg, res)
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Save(cfg, res)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("run IDs collide")
	}
	if err := os.Mkdir(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != first || runs[1].ID != second {
		t.Errorf("List = %+v", runs)
	}
}

func TestLoadMissing(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("nope"); err == nil {
		t.Error("expected error for a missing run")
	}
	if _, err := store.LoadFrames("nope"); err == nil {
		t.Error("expected error for missing frames")
	}
}
