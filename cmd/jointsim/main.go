package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/jointsim/internal/action"
	"github.com/san-kum/jointsim/internal/config"
	"github.com/san-kum/jointsim/internal/control"
	"github.com/san-kum/jointsim/internal/record"
	"github.com/san-kum/jointsim/internal/scenario"
	"github.com/san-kum/jointsim/internal/sim"
	"github.com/san-kum/jointsim/internal/storage"
	"github.com/san-kum/jointsim/internal/viz"
)

var (
	dataDir    string
	tau        float64
	seed       int64
	maxTicks   int
	noiseQ     float64
	noiseVel   float64
	goalsFlag  string
	configFile string
	preset     string
	jointCount int
	pieceCount int
	frameRate  int
	column     int
	outPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jointsim",
		Short: "joint dependency simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".jointsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "build a scenario, execute goals, record and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&goalsFlag, "goals", "", "goal sequence, e.g. 0=120,1=80")

	probeCmd := &cobra.Command{
		Use:   "probe [scenario]",
		Short: "probe the mobility of every joint",
		Args:  cobra.MaximumNArgs(1),
		RunE:  probeScenario,
	}
	addScenarioFlags(probeCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one column of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&column, "column", 0, "sample column to plot (0 = first joint's q)")

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], outPath)
		},
	}
	exportCmd.Flags().StringVar(&outPath, "out", "-", "output path (- for stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "list furniture kinds and presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("scenarios:")
			for _, k := range scenario.Kinds() {
				fmt.Printf("  %s\n", k)
			}
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, probeCmd, listCmd, plotCmd, exportCmd, liveCmd, kindsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&tau, "tau", config.DefaultTau, "tick size")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", config.DefaultMaxTicks, "per-goal tick budget")
	cmd.Flags().Float64Var(&noiseQ, "noise-q", config.DefaultNoise, "position sensor noise stddev")
	cmd.Flags().Float64Var(&noiseVel, "noise-vel", config.DefaultNoise, "velocity sensor noise stddev")
	cmd.Flags().IntVar(&jointCount, "joints", config.DefaultJoints, "chain length (lockbox)")
	cmd.Flags().IntVar(&pieceCount, "pieces", config.DefaultPieces, "piece count (random)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig merges preset, config file and flags into one Config,
// with flags winning where explicitly set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Scenario = args[0]
	}
	if cmd.Flags().Changed("tau") {
		cfg.Tau = tau
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("max-ticks") {
		cfg.MaxTicks = maxTicks
	}
	if cmd.Flags().Changed("noise-q") {
		cfg.Noise.Q = noiseQ
	}
	if cmd.Flags().Changed("noise-vel") {
		cfg.Noise.Vel = noiseVel
	}
	if cmd.Flags().Changed("joints") {
		cfg.Joints = jointCount
	}
	if cmd.Flags().Changed("pieces") {
		cfg.Pieces = pieceCount
	}
	return cfg, nil
}

// buildScenario constructs the world, one controller per joint, and the
// action machine for cfg.
func buildScenario(cfg *config.Config) (*sim.World, []*control.Controller, *action.Machine, *scenario.Furniture, *rand.Rand, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	world := sim.NewWorld(rng)

	furniture, err := scenario.Build(cfg.Scenario, world, rng, cfg.Options())
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	controllers := make([]*control.Controller, 0, world.NumJoints())
	for i := 0; i < world.NumJoints(); i++ {
		controllers = append(controllers, control.NewController(world, i))
	}

	machine := action.New(world, controllers,
		action.WithTau(cfg.Tau),
		action.WithMaxTicks(cfg.MaxTicks),
	)
	return world, controllers, machine, furniture, rng, nil
}

func parseGoals(s string) ([]action.Goal, error) {
	if s == "" {
		return nil, nil
	}
	var goals []action.Goal
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("bad goal %q, want joint=target", part)
		}
		joint, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil {
			return nil, fmt.Errorf("bad joint in %q: %w", part, err)
		}
		target, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad target in %q: %w", part, err)
		}
		goals = append(goals, action.Goal{Joint: joint, Target: target})
	}
	return goals, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	world, controllers, machine, furniture, _, err := buildScenario(cfg)
	if err != nil {
		return err
	}

	rec := record.NewRecorder()
	rec.Attach(world, controllers)

	goals, err := parseGoals(goalsFlag)
	if err != nil {
		return err
	}
	if goals == nil {
		for _, g := range cfg.Goals {
			goals = append(goals, action.Goal{Joint: g.Joint, Target: g.Target})
		}
	}
	if goals == nil && furniture.OpenHigh > furniture.OpenLow {
		// No explicit goals: open the piece by driving the handle to
		// the middle of its release interval.
		goals = []action.Goal{{Joint: furniture.Joints[0], Target: (furniture.OpenLow + furniture.OpenHigh) / 2}}
	}

	if goals == nil {
		// Still nothing to drive toward: record a mobility sweep.
		for i := 0; i < world.NumJoints(); i++ {
			if _, err := machine.CheckState(i); err != nil {
				return err
			}
		}
	} else if err := machine.RunAction(context.Background(), goals); err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Scenario, cfg.Tau, cfg.Seed, rec)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d ticks over %d joints\n", runID, rec.Ticks(), world.NumJoints())
	for name, value := range rec.Summary() {
		fmt.Printf("  %s: %.4f\n", name, value)
	}
	return nil
}

func probeScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	world, _, machine, _, _, err := buildScenario(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOINT\tQ\tMOBILITY")
	for i := 0; i < world.NumJoints(); i++ {
		state, err := machine.CheckState(i)
		if err != nil {
			return err
		}
		mobility := "free"
		if state == action.Locked {
			mobility = "locked"
		}
		fmt.Fprintf(w, "%d\t%.2f\t%s\n", i, world.Joint(i).TrueQ(), mobility)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTICKS\tJOINTS\tSEED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", r.ID, r.Scenario, r.Ticks, r.Joints, r.Seed)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, rows, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}
	if column < 0 || column >= len(rows[0]) {
		return fmt.Errorf("column %d out of range (run has %d)", column, len(rows[0]))
	}

	series := make([]float64, 0, len(rows))
	for _, row := range rows {
		series = append(series, row[column])
	}

	fmt.Println(asciigraph.Plot(series, asciigraph.Height(15), asciigraph.Width(80)))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	world, controllers, _, _, rng, err := buildScenario(cfg)
	if err != nil {
		return err
	}

	return viz.Run(world, controllers, cfg.Tau, frameRate, rng)
}
