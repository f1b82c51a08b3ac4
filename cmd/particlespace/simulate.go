package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/particlespace/internal/automation"
	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/experiment"
	"github.com/san-kum/particlespace/internal/storage"
	"github.com/san-kum/particlespace/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation (%d particles, %d steps)...\n", cfg.Mode, cfg.Particles.NumParticles, cfg.Steps)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, snapshots: %d\n", result.StepsTaken, len(result.Snapshots))
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	sim, err := experiment.Build(cfg, reg, cfg.Seed)
	if err != nil {
		return err
	}

	themeName, _ := cmd.Flags().GetString("theme")
	gifPath, _ := cmd.Flags().GetString("gif")
	viz.SetTheme(themeName)

	resets := int64(0)
	opts := viz.Options{
		Title:    fmt.Sprintf("%s / %s", cfg.Mode, cfg.Boundary),
		Bounds:   cfg.Bounds(),
		MaxSpeed: cfg.Particles.MaxVelocity * math.Sqrt2,
		GIFPath:  gifPath,
		Reset: func() (*dynamo.Simulation, error) {
			resets++
			return experiment.Build(cfg, reg, cfg.Seed+resets)
		},
	}
	if cfg.Mode == config.ModeGravity {
		opts.G = cfg.Gravity.GravityConstant
		opts.MinDistance = cfg.Gravity.MinDistance
	}

	return viz.Run(sim, opts)
}

func benchMode(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sim, err := experiment.Build(cfg, experiment.NewRegistry(), cfg.Seed)
	if err != nil {
		return err
	}

	// warmup
	for i := 0; i < 10; i++ {
		sim.Step()
	}

	start := time.Now()
	for i := 0; i < cfg.Steps; i++ {
		sim.Step()
	}
	elapsed := time.Since(start)

	perStep := elapsed / time.Duration(max(cfg.Steps, 1))
	fmt.Printf("strategy: %s\n", sim.Strategy().Name())
	fmt.Printf("particles: %d\n", sim.Len())
	fmt.Printf("steps: %d in %v\n", cfg.Steps, elapsed)
	fmt.Printf("per step: %v\n", perStep)
	if elapsed > 0 {
		fmt.Printf("throughput: %.0f steps/s\n", float64(cfg.Steps)/elapsed.Seconds())
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	runs, _ := cmd.Flags().GetInt("runs")
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	ens := dynamo.NewEnsemble(experiment.Builder(cfg, experiment.NewRegistry()), runs, cfg.Seed)
	start := time.Now()
	results, err := ens.Run(cmd.Context(), cfg.RunConfig())
	if err != nil {
		return err
	}
	fmt.Printf("%d runs completed in %v\n\n", runs, time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	names := metricNames(results[0].Metrics)
	fmt.Fprint(w, "SEED")
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)

	means := make(map[string]float64, len(names))
	for i, r := range results {
		fmt.Fprintf(w, "%d", cfg.Seed+int64(i))
		for _, n := range names {
			fmt.Fprintf(w, "\t%.6g", r.Metrics[n])
			means[n] += r.Metrics[n] / float64(len(results))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, "mean")
	for _, n := range names {
		fmt.Fprintf(w, "\t%.6g", means[n])
	}
	fmt.Fprintln(w)
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	param, _ := f.GetString("param")
	lo, _ := f.GetFloat64("min")
	hi, _ := f.GetFloat64("max")
	points, _ := f.GetInt("points")

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: param,
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  points,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	var names []string
	for _, r := range results {
		if r.Err == nil {
			names = metricNames(r.Metrics)
			break
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS", param)
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.6g\t%d", r.ParamValue, r.StepsTaken)
		if r.Err != nil {
			fmt.Fprintf(w, "\terror: %v\n", r.Err)
			continue
		}
		for _, n := range names {
			fmt.Fprintf(w, "\t%.6g", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	trials, _ := cmd.Flags().GetInt("trials")

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Seed:      cfg.Seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("stable: %d (%.1f%%)\n", stable, 100*float64(stable)/float64(len(results)))
	fmt.Printf("unstable: %d\n", unstable)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	results, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), st)
	for _, r := range results {
		fmt.Printf("%s: %d steps", r.Name, r.Result.StepsTaken)
		if r.RunID != "" {
			fmt.Printf(", saved as %s", r.RunID)
		}
		fmt.Println()
		printMetrics(r.Result.Metrics)
	}
	return err
}

func metricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func runGridSearch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	specs, _ := cmd.Flags().GetStringArray("param")
	metric, _ := cmd.Flags().GetString("metric")

	g := &automation.GridSearch{Base: cfg, Metric: metric}
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return fmt.Errorf("invalid value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		g.Params = append(g.Params, name)
		g.Values = append(g.Values, values)
	}

	res, err := g.Search(cmd.Context(), experiment.NewRegistry())
	if res != nil {
		fmt.Printf("evaluated: %d, failed: %d\n", res.Evaluated, res.Failed)
	}
	if err != nil {
		return err
	}
	fmt.Printf("best %s: %.6g\n", metric, res.Value)
	for _, name := range g.Params {
		fmt.Printf("  %s = %g\n", name, res.Params[name])
	}
	return nil
}
