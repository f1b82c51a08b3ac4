package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/particlespace/internal/analysis"
	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/export"
	"github.com/san-kum/particlespace/internal/physics"
	"github.com/san-kum/particlespace/internal/storage"
	"github.com/san-kum/particlespace/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tPARTICLES\tSTEPS\tBOUNDARY\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NumParticles,
			run.StepsTaken,
			run.Boundary,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(snaps) < 2 {
		return fmt.Errorf("not enough frames to plot (%d)", len(snaps))
	}

	kinetic := make([]float64, len(snaps))
	total := make([]float64, len(snaps))
	for i, snap := range snaps {
		kinetic[i] = physics.KineticEnergy(snap.Particles)
		total[i] = kinetic[i]
		if cfg.Mode == config.ModeGravity {
			total[i] = physics.TotalEnergy(snap.Particles, cfg.Gravity.GravityConstant, cfg.Gravity.MinDistance)
		}
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("mode: %s\n", cfg.Mode)
	fmt.Printf("samples: %d (frames %d..%d)\n\n", len(snaps), snaps[0].Frame, snaps[len(snaps)-1].Frame)

	if cfg.Mode == config.ModeGravity {
		fmt.Println(viz.Charts([][]float64{kinetic, total}, 80, 12, "kinetic (red) and total (blue) energy"))
	} else {
		fmt.Println(viz.Chart(kinetic, 80, 10, "kinetic energy"))
	}
	fmt.Println()
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snaps, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(csv.NewWriter(os.Stdout), snaps)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	return export.ExportJSON(os.Stdout, meta, snaps)
}

func snapshotSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	f := cmd.Flags()
	frame, _ := f.GetInt("frame")
	trails, _ := f.GetBool("trails")
	width, _ := f.GetInt("width")
	out, _ := f.GetString("out")

	st := storage.New(dataDir)
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	var svg string
	if trails {
		svg = export.TrajectoriesSVG(snaps, cfg.Bounds(), width, "#3366cc")
	} else {
		if frame < 0 {
			frame = len(snaps) - 1
		}
		if frame >= len(snaps) {
			return fmt.Errorf("frame index %d out of range (run has %d snapshots)", frame, len(snaps))
		}
		svg = export.SnapshotSVG(snaps[frame], cfg.Bounds(), width, cfg.Particles.MaxVelocity)
	}

	if out == "" {
		_, err := fmt.Fprint(os.Stdout, svg)
		return err
	}
	return os.WriteFile(out, []byte(svg), 0644)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	snaps, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(snaps) < 4 {
		return fmt.Errorf("not enough frames to analyze (%d)", len(snaps))
	}

	G := 0.0
	if cfg.Mode == config.ModeGravity {
		G = cfg.Gravity.GravityConstant
	}
	energy := analysis.EnergySeries(snaps, G, cfg.Gravity.MinDistance)
	sum := analysis.Summarize(energy)

	fmt.Printf("energy analysis: %s\n", meta.ID)
	fmt.Printf("mode: %s\n\n", meta.Mode)
	fmt.Printf("samples: %d\n", sum.N)
	fmt.Printf("mean: %.6g  stddev: %.6g\n", sum.Mean, sum.StdDev)
	fmt.Printf("min: %.6g  max: %.6g\n", sum.Min, sum.Max)
	fmt.Printf("drift: %.6g\n\n", sum.Drift)

	dt := float64(meta.SampleEvery)
	bins := analysis.PowerSpectrum(energy, dt)
	power := make([]float64, len(bins))
	for i, b := range bins {
		power[i] = b.Power
	}
	fmt.Println(viz.Chart(power, 80, 12, "energy power spectrum"))
	fmt.Println()

	if best, ok := analysis.DominantFrequency(energy, dt); ok {
		fmt.Printf("dominant frequency: %.4g cycles/frame\n", best.Frequency)
		fmt.Printf("period: %.4g frames\n", 1/best.Frequency)
	} else {
		fmt.Println("no oscillation detected")
	}
	return nil
}
