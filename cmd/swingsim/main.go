package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/swingsim/internal/analysis"
	"github.com/san-kum/swingsim/internal/automation"
	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/experiment"
	"github.com/san-kum/swingsim/internal/log"
	"github.com/san-kum/swingsim/internal/loop"
	"github.com/san-kum/swingsim/internal/optim"
	"github.com/san-kum/swingsim/internal/storage"
	"github.com/san-kum/swingsim/internal/swing"
	"github.com/san-kum/swingsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logFile  string
	logOut   *os.File

	configFile string
	preset     string
	frames     int
	fps        int
	hertz      int
	panicTicks int
	maxTicks   int
	iterations int
	seed       uint32
	realtime   bool

	// live
	theme     string
	autopilot bool

	// sweep and montecarlo
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	workers    int
	trials     int
	perturb    float64
	perturbed  []string

	svgOut    string
	svgWidth  int
	svgHeight int

	particle int

	// search
	ranges   []string
	metric   string
	maximize bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "swingsim",
		Short:             "fixed-timestep rope and swing simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logOut != nil {
				_ = logOut.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", log.DataDir(), "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (default XDG state dir)")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation headlessly and save it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace frames on the wall clock")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run a simulation in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeDusk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().BoolVar(&autopilot, "autopilot", false, "let the scripted player swing (swing)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot link error and free-end height",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the final rope and the free-end path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "sway frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&particle, "particle", -1, "particle index, negative counts from the free end")

	pathCmd := &cobra.Command{
		Use:   "path [run_id]",
		Short: "plot the path a particle traced",
		Args:  cobra.ExactArgs(1),
		RunE:  pathPlot,
	}
	pathCmd.Flags().IntVar(&particle, "particle", -1, "particle index, negative counts from the free end")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep relaxation passes against residual link error",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep (default iterations, passes for swing)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 16, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 16, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "run trials with randomly perturbed parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addRunFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	mcCmd.Flags().Float64Var(&perturb, "perturb", 0.1, "relative perturbation")
	mcCmd.Flags().StringSliceVar(&perturbed, "params", nil, "parameters to perturb")
	mcCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")

	searchCmd := &cobra.Command{
		Use:   "search [model]",
		Short: "grid search parameters for the best metric",
		Example: "  swingsim search swing --range release_tick=60:140:9 --metric landings --maximize\n" +
			"  swingsim search strand --range iterations=1:8:8 --range strength=0.25,0.5,1",
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}
	addRunFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&ranges, "range", nil, "name=min:max:n or name=v1,v2 (repeatable)")
	searchCmd.Flags().StringVar(&metric, "metric", "final_link_error", "metric to optimize")
	searchCmd.Flags().BoolVar(&maximize, "maximize", false, "prefer larger values")
	searchCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default GOMAXPROCS)")
	_ = searchCmd.MarkFlagRequired("range")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().StringVar(&configFile, "config", "", "base config file (yaml)")

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark a model across tick rates",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		analyzeCmd, pathCmd, presetsCmd, sweepCmd, mcCmd, searchCmd, scenarioCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to render")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	cmd.Flags().IntVar(&hertz, "hertz", loop.DefaultHertz, "simulation ticks per second")
	cmd.Flags().IntVar(&panicTicks, "panic", loop.DefaultPanic, "backlog in ticks that is discarded")
	cmd.Flags().IntVar(&maxTicks, "max", loop.DefaultMax, "most ticks per frame")
	cmd.Flags().IntVar(&iterations, "iterations", 3, "relaxation passes per tick")
	cmd.Flags().Uint32Var(&seed, "seed", config.DefaultSeed, "random seed")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	path, err := log.LogPath(logFile)
	if err != nil {
		return err
	}
	logOut, err = log.Open(path, log.ParseLevel(logLevel))
	return err
}

// loadConfig resolves the run configuration for model. A preset is applied
// first, then the config file, then any flag set on the command line.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Model = model

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("hertz") {
		cfg.Loop.Hertz = hertz
	}
	if flags.Changed("panic") {
		cfg.Loop.Panic = panicTicks
	}
	if flags.Changed("max") {
		cfg.Loop.Max = maxTicks
	}
	if flags.Changed("iterations") {
		cfg.Strand.Iterations = iterations
		cfg.Swing.Passes = iterations
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("realtime") {
		cfg.Realtime = realtime
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp, err := registry.Build(cfg)
	if err != nil {
		return err
	}
	exp.SetLogger(log.Component("experiment"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation...\n", model)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Model:  model,
		Preset: preset,
		Seed:   cfg.Seed,
		FPS:    cfg.FPS,
		Hertz:  cfg.Loop.Hertz,
		Panic:  cfg.Loop.Panic,
		Max:    cfg.Loop.Max,
	}
	if t, ok := exp.System().(dynamo.Configurable); ok {
		meta.Params = t.GetParams()
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d  ticks: %d  stalls: %d  clamped: %d\n",
		len(result.Frames), result.Stats.Ticks, result.Stats.Stalls, result.Stats.Clamped)
	if g, ok := exp.System().(*swing.Autopilot); ok {
		fmt.Printf("rounds: %d  landings: %d  falls: %d\n", g.Round(), g.Landings(), g.Falls())
	}
	printMetrics(result.Metrics)

	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	sys, err := registry.GetModel(model, cfg)
	if err != nil {
		return err
	}
	if a, ok := sys.(*swing.Autopilot); ok && !autopilot {
		sys = a.Game
	}

	viz.SetTheme(theme)
	m, err := viz.NewModel(model, sys, cfg.LoopConfig(), cfg.FPS)
	if err != nil {
		return err
	}
	m.Loop().SetLogger(log.Component("loop"))

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("no runs found")
			return nil
		}
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tPRESET\tTIME\tFRAMES\tFPS\tHZ\tMAX ERR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.4f\n",
			run.ID,
			run.Model,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FPS,
			run.Hertz,
			run.Metrics["max_link_error"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("frames: %d\n\n", len(frames))

	linkErr := make([]float64, len(frames))
	height := make([]float64, len(frames))
	for i, f := range frames {
		linkErr[i] = f.MaxLinkError()
		if n := len(f.Positions); n > 0 {
			// screen y grows downwards
			height[i] = -f.Positions[n-1].Y
		}
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{linkErr, "max link error"},
		{height, "free-end height"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.ExportMetadata(os.Stdout, meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteFramesCSV(os.Stdout, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	svg := storage.RopeSVG(frames, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("no data to draw")
	}
	if svgOut == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	sway := analysis.Series(frames, particle, analysis.X)
	if len(sway) < 4 {
		return fmt.Errorf("not enough frames to analyze")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	ps := analysis.PowerSpectrum(sway)
	plotData := ps[:max(len(ps)/4, 2)]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (sway x)"),
	)
	fmt.Println(graph)
	fmt.Println()

	interval := time.Second / time.Duration(max(meta.FPS, 1))
	if period, ok := analysis.DominantPeriod(sway, interval); ok {
		fmt.Printf("dominant period: %v (%.3f hz)\n", period.Round(time.Millisecond), 1/period.Seconds())
	} else {
		fmt.Println("dominant period: none")
	}
	if samples, ok := analysis.CrossingPeriod(sway); ok {
		fmt.Printf("crossing period: %v\n", time.Duration(samples*float64(interval)).Round(time.Millisecond))
	}
	return nil
}

func pathPlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	xs := analysis.Series(frames, particle, analysis.X)
	ys := analysis.Series(frames, particle, analysis.Y)
	if len(xs) == 0 {
		return fmt.Errorf("no data to plot")
	}
	points := make([]dynamo.Vec2, len(xs))
	for i := range xs {
		points[i] = dynamo.Vec2{X: xs[i], Y: ys[i]}
	}

	fmt.Printf("path plot: %s\n", meta.ID)
	fmt.Printf("model: %s, particle %d\n\n", meta.Model, particle)
	fmt.Print(analysis.PathToASCII(points, 70, 20))
	fmt.Printf("\nLegend: . = early, o = middle, • = late\n")
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return err
	}

	param := sweepParam
	if param == "" {
		param = "iterations"
		if model == "swing" {
			param = "passes"
		}
	}

	sweep := &automation.ParameterSweep{
		ParamName: param,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Workers:   workers,
	}

	fmt.Printf("sweeping %s from %g to %g (%d steps)\n\n", param, sweepMin, sweepMax, sweepSteps)
	results, err := automation.RunSweep(cmd.Context(), sweep, cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRESIDUAL\tMAX ERR\tSTRETCH\tSTABILITY\n", strings.ToUpper(param))
	residual := make([]float64, len(results))
	for i, r := range results {
		residual[i] = r.Metrics["final_link_error"]
		fmt.Fprintf(w, "%.4g\t%.6f\t%.6f\t%.6f\t%.3f\n",
			r.ParamValue,
			r.Metrics["final_link_error"],
			r.Metrics["max_link_error"],
			r.Metrics["mean_stretch"],
			r.Metrics["stability"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(residual) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(residual,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("residual link error vs "+param),
		))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return err
	}

	mc := &automation.MonteCarloConfig{
		Params:       perturbed,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         cfg.Seed,
		Workers:      workers,
	}

	fmt.Printf("running %d trials of %s (±%.0f%%)\n\n", trials, model, perturb*100)
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tPARAMS\tMAX ERR\tRESIDUAL\tSTABLE")
	for _, r := range results {
		names := make([]string, 0, len(r.Params))
		for name := range r.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s=%.4g", name, r.Params[name])
		}

		stable := "yes"
		if !r.Stable {
			stable = "no"
		}
		if r.Err != nil {
			stable = r.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%.6f\t%.6f\t%s\n",
			r.TrialID, strings.Join(parts, " "), r.Metrics["max_link_error"], r.Metrics["final_link_error"], stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stableCount, unstableCount := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stableCount, unstableCount)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := loadConfig(cmd, model)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(ranges))
	values := make([][]float64, 0, len(ranges))
	for _, r := range ranges {
		name, vals, err := optim.ParseRange(r)
		if err != nil {
			return err
		}
		names = append(names, name)
		values = append(values, vals)
	}

	search := optim.NewGridSearch(names, values, metric)
	search.Maximize = maximize
	search.Workers = workers

	best, points, err := automation.RunSearch(cmd.Context(), search, cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for _, p := range points {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = fmt.Sprintf("%.4g", p.Params[name])
		}
		value := fmt.Sprintf("%.6f", p.Value)
		if p.Err != nil {
			value = p.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(row, "\t"), value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f at", metric, best.Value)
	for _, name := range names {
		fmt.Printf(" %s=%.4g", name, best.Params[name])
	}
	fmt.Println()
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	base := config.DefaultConfig()
	if configFile != "" {
		base, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, base, experiment.NewRegistry())
	for i, r := range results {
		fmt.Printf("\nstep %d: %s, %d frames\n", i+1, scenario.Steps[i].Model, len(r.Frames))
		printMetrics(r.Metrics)
	}
	return err
}

func benchModel(cmd *cobra.Command, args []string) error {
	model := args[0]
	registry := experiment.NewRegistry()

	frameCounts := []int{600, 3000}
	rates := []int{60, 120, 240}

	fmt.Printf("benchmarking %s\n\n", model)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAMES\tHZ\tTICKS\tTIME\tTICKS/SEC")

	for _, n := range frameCounts {
		for _, hz := range rates {
			cfg := config.DefaultConfig()
			cfg.Model = model
			cfg.Frames = n
			cfg.Loop.Hertz = hz
			cfg.Loop.Max = max(cfg.Loop.Max, hz/cfg.FPS+1)

			exp, err := registry.Build(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			ticks := result.Stats.Ticks
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
				n, hz, ticks, elapsed, float64(ticks)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
