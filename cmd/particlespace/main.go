package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/particlespace/internal/config"
	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/experiment"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	seed        int64
	steps       int
	sampleEvery int
	numParts    int
	radius      float64
	boundary    string
	resolver    string
	solver      string
	integrator  string
	gravityG    float64
	theta       float64
	minMass     float64
	maxMass     float64
	maxVelocity float64
	bound       float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "particlespace",
		Short:         "2D particle gravity and collision simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlespace", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [mode]",
		Short: "run a simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [mode]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().String("theme", "cyberpunk", "color theme")
	liveCmd.Flags().String("gif", "particlespace.gif", "recording output path")

	benchCmd := &cobra.Command{
		Use:   "bench [mode]",
		Short: "benchmark step throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchMode,
	}
	addSimFlags(benchCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [mode]",
		Short: "run independent seeds concurrently",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().Int("runs", 8, "number of runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [mode]",
		Short: "sweep one parameter over a range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().String("param", "radius", "parameter to sweep")
	sweepCmd.Flags().Float64("min", 0.02, "first value")
	sweepCmd.Flags().Float64("max", 0.1, "last value")
	sweepCmd.Flags().Int("points", 5, "number of values")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [mode]",
		Short: "repeat a configuration over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addSimFlags(mcCmd)
	mcCmd.Flags().Int("trials", 20, "number of trials")

	searchCmd := &cobra.Command{
		Use:   "search [mode]",
		Short: "grid search for the parameters minimising a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGridSearch,
	}
	addSimFlags(searchCmd)
	searchCmd.Flags().StringArray("param", nil, "parameter values as name=v1,v2,... (repeatable)")
	searchCmd.Flags().String("metric", "energy_drift", "metric to minimise")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "energy statistics and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render a saved run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotSVG,
	}
	snapshotCmd.Flags().Int("frame", -1, "snapshot index, -1 for the last")
	snapshotCmd.Flags().Bool("trails", false, "draw trajectories of all frames")
	snapshotCmd.Flags().Int("width", 600, "image width in pixels")
	snapshotCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := config.ListModes()
			if len(args) > 0 {
				modes = args[:1]
			}
			for _, m := range modes {
				presets := config.ListPresets(m)
				if len(presets) == 0 {
					fmt.Printf("no presets for mode: %s\n", m)
					continue
				}
				fmt.Printf("presets for %s:\n", m)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	componentsCmd := &cobra.Command{
		Use:   "components",
		Short: "list registered boundaries, resolvers, solvers and integrators",
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			fmt.Printf("boundaries:  %v\n", reg.ListBoundaries())
			fmt.Printf("resolvers:   %v\n", reg.ListResolvers())
			fmt.Printf("solvers:     %v\n", reg.ListSolvers())
			fmt.Printf("integrators: %v\n", reg.ListIntegrators())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, ensembleCmd, sweepCmd, mcCmd, searchCmd, scenarioCmd,
		listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, presetsCmd, componentsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "default", "preset for the mode")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	f.IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "snapshot interval in steps")
	f.IntVar(&numParts, "particles", config.DefaultNumParticles, "number of particles")
	f.Float64Var(&radius, "radius", config.DefaultRadius, "particle radius")
	f.Float64Var(&minMass, "min-mass", config.DefaultMinMass, "minimum particle mass")
	f.Float64Var(&maxMass, "max-mass", config.DefaultMaxMass, "maximum particle mass")
	f.Float64Var(&maxVelocity, "max-velocity", config.DefaultMaxVelocity, "maximum initial velocity component")
	f.Float64Var(&bound, "bound", config.DefaultBound, "half-width of the square arena [-bound, bound]")
	f.StringVar(&boundary, "boundary", "", "boundary policy: wrap, reflect or open (preset default)")
	f.StringVar(&resolver, "resolver", "", "collision resolver: elastic or reverse (preset default)")
	f.StringVar(&solver, "solver", "", "gravity solver: exact or barneshut (preset default)")
	f.StringVar(&integrator, "integrator", "", "integrator: euler or leapfrog (preset default)")
	f.Float64Var(&gravityG, "g", config.DefaultG, "gravitational constant")
	f.Float64Var(&theta, "theta", config.DefaultTheta, "barnes-hut opening angle")
}

// resolveConfig starts from the mode's preset or a config file, then
// applies the flags the user actually set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	mode := config.ModeCollision
	if len(args) > 0 {
		mode = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		if len(args) > 0 {
			cfg.Mode = mode
		}
	} else {
		cfg = config.GetPreset(mode, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s (available: %v)", mode, preset, config.ListPresets(mode))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("particles") {
		cfg.Particles.NumParticles = numParts
	}
	if flags.Changed("radius") {
		cfg.Particles.Radius = radius
	}
	if flags.Changed("min-mass") {
		cfg.Particles.MinMass = minMass
	}
	if flags.Changed("max-mass") {
		cfg.Particles.MaxMass = maxMass
	}
	if flags.Changed("max-velocity") {
		cfg.Particles.MaxVelocity = maxVelocity
	}
	if flags.Changed("bound") {
		cfg.Arena = config.ArenaConfig{Bound: bound}
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("resolver") {
		cfg.Resolver = resolver
	}
	if flags.Changed("solver") {
		cfg.Solver = solver
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("g") {
		cfg.Gravity.GravityConstant = gravityG
	}
	if flags.Changed("theta") {
		cfg.Gravity.Theta = theta
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	dynamo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func printMetrics(metrics map[string]float64) {
	for _, name := range metricNames(metrics) {
		fmt.Printf("  %s: %.6g\n", name, metrics[name])
	}
}
