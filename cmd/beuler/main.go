// Command beuler drives the variable-step implicit backward-Euler / damped
// Newton integrator in package dae against the fixtures in package problems.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/beuler/internal/config"
	"github.com/san-kum/beuler/internal/dae"
	"github.com/san-kum/beuler/internal/problems"
	"github.com/san-kum/beuler/internal/storage"
	"github.com/san-kum/beuler/internal/tui"
)

var (
	dataDir       string
	targetT       float64
	reltol        float64
	abstol        float64
	initialStep   float64
	maxStep       float64
	maxAttempts   int
	printLevel    int
	dumpJacobians bool
	configFile    string
	presetName    string
	mu            float64
	lambda        float64
	component     int
)

// main registers commands and flags and executes the root command. It exits
// the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "beuler",
		Short: "implicit backward-Euler / damped-Newton DAE integrator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".beuler", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [problem]",
		Short: "integrate a named problem to a target time",
		Args:  cobra.ExactArgs(1),
		RunE:  runIntegration,
	}
	registerRunFlags(runCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [problem]",
		Short: "integrate and render an ASCII trajectory plot",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	registerRunFlags(plotCmd)
	plotCmd.Flags().IntVar(&component, "component", 0, "state component to plot")

	listCmd := &cobra.Command{
		Use:   "list-problems",
		Short: "list registered problem fixtures",
		RunE:  listProblems,
	}

	liveCmd := &cobra.Command{
		Use:   "live [problem]",
		Short: "live progress view of an in-flight integration",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	registerRunFlags(liveCmd)

	rootCmd.AddCommand(runCmd, plotCmd, listCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&targetT, "target", 10.0, "target time")
	cmd.Flags().Float64Var(&reltol, "reltol", config.DefaultRelTol, "relative tolerance")
	cmd.Flags().Float64Var(&abstol, "abstol", config.DefaultAbsTol, "absolute tolerance")
	cmd.Flags().Float64Var(&initialStep, "initial-step", config.DefaultInitialStep, "initial step size")
	cmd.Flags().Float64Var(&maxStep, "max-step", 0, "maximum step size (0 = unbounded)")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", config.DefaultMaxAttempts, "global attempt budget")
	cmd.Flags().IntVar(&printLevel, "print-level", 0, "diagnostic verbosity (0-5)")
	cmd.Flags().BoolVar(&dumpJacobians, "dump-jacobians", false, "dump per-step Jacobian CSV")
	cmd.Flags().StringVar(&configFile, "config", "", "load settings from a YAML config file")
	cmd.Flags().StringVar(&presetName, "preset", "", "load a named preset")
	cmd.Flags().Float64Var(&mu, "mu", 1.0, "Van der Pol nonlinearity parameter")
	cmd.Flags().Float64Var(&lambda, "lambda", 10.0, "decay-equation rate constant")
}

func registry() map[string]func() dae.Problem {
	return map[string]func() dae.Problem{
		"decay":     func() dae.Problem { return &problems.Decay{Lambda: lambda, Y0: 1} },
		"linear":    func() dae.Problem { return problems.NewLinearSpringMass(1.0, 4.0, 0.5) },
		"vanderpol": func() dae.Problem { return problems.NewVanDerPol(mu) },
		"robertson": func() dae.Problem { return problems.NewRobertson() },
	}
}

func listProblems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEQUATIONS")
	for name, ctor := range registry() {
		p := ctor()
		fmt.Fprintf(w, "%s\t%d\n", name, p.NEquations())
	}
	return w.Flush()
}

func resolveConfig(cmd *cobra.Command, name string) error {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		applyConfig(cmd, cfg)
	} else if presetName != "" {
		cfg := config.GetPreset(presetName)
		if cfg == nil {
			return fmt.Errorf("unknown preset %q", presetName)
		}
		applyConfig(cmd, cfg)
	}
	return nil
}

func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("target") {
		targetT = cfg.TargetT
	}
	if !cmd.Flags().Changed("reltol") {
		reltol = cfg.RelTol
	}
	if !cmd.Flags().Changed("abstol") {
		abstol = cfg.AbsTol
	}
	if !cmd.Flags().Changed("initial-step") && cfg.InitialStep > 0 {
		initialStep = cfg.InitialStep
	}
	if !cmd.Flags().Changed("max-attempts") && cfg.MaxAttempts > 0 {
		maxAttempts = cfg.MaxAttempts
	}
	if cfg.Params != nil {
		if v, ok := cfg.Params["mu"]; ok && !cmd.Flags().Changed("mu") {
			mu = v
		}
		if v, ok := cfg.Params["lambda"]; ok && !cmd.Flags().Changed("lambda") {
			lambda = v
		}
	}
}

func buildProblem(name string) (dae.Problem, error) {
	ctor, ok := registry()[name]
	if !ok {
		return nil, fmt.Errorf("unknown problem %q", name)
	}
	return ctor(), nil
}

func buildOptions() dae.Options {
	opts := dae.DefaultOptions()
	opts.RelTol = reltol
	opts.AbsTol = dae.Vector{abstol}
	opts.InitialStep = initialStep
	opts.MaxStep = maxStep
	opts.MaxAttempts = maxAttempts
	opts.PrintLevel = printLevel
	opts.DumpJacobians = dumpJacobians
	return opts
}

func runIntegration(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := resolveConfig(cmd, name); err != nil {
		return err
	}

	p, err := buildProblem(name)
	if err != nil {
		return err
	}

	d := dae.NewWithOptions(p, 0, buildOptions())
	start := time.Now()
	reached := d.Integrate(targetT)
	elapsed := time.Since(start)

	if reached < 0 {
		return fmt.Errorf("integration failed at t=%v (sign-encoded return %v)", -reached, reached)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "problem\t%s\n", name)
	fmt.Fprintf(w, "reached\t%v\n", reached)
	fmt.Fprintf(w, "wall time\t%v\n", elapsed)
	fmt.Fprintf(w, "steps accepted\t%d\n", d.Stats.StepsAccepted)
	fmt.Fprintf(w, "convergence failures\t%d\n", d.Stats.ConvergenceFailures)
	fmt.Fprintf(w, "truncation failures\t%d\n", d.Stats.TruncationFailures)
	fmt.Fprintf(w, "newton iterations\t%d\n", d.Stats.NewtonIterations)
	fmt.Fprintf(w, "newton its (last step)\t%d\n", d.Stats.NewtonItsLastStep)
	fmt.Fprintf(w, "linear solves (last step)\t%d\n", d.Stats.LinearSolvesLastStep)
	fmt.Fprintf(w, "jacobian reevals (last step)\t%d\n", d.Stats.JacobianReevalsLastStep)
	fmt.Fprintf(w, "function evals\t%d\n", d.NEvals())
	fmt.Fprintf(w, "final y\t%v\n", d.Y())
	if err := w.Flush(); err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err == nil {
		_, _ = store.Save(name, reltol, abstol, targetT, reached, d.Stats, []float64{reached}, []dae.Vector{d.Y()})
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := resolveConfig(cmd, name); err != nil {
		return err
	}

	p, err := buildProblem(name)
	if err != nil {
		return err
	}

	opts := buildOptions()
	d := dae.NewWithOptions(p, 0, opts)

	var data []float64
	t := 0.0
	step := targetT / 200
	if step <= 0 {
		step = 1
	}
	for t < targetT {
		next := t + step
		if next > targetT {
			next = targetT
		}
		reached := d.Integrate(next)
		if reached < 0 {
			return fmt.Errorf("integration failed at t=%v", -reached)
		}
		y := d.Y()
		if component < len(y) {
			data = append(data, y[component])
		}
		t = next
	}

	caption := fmt.Sprintf("%s y[%d](t), t in [0,%g]", name, component, targetT)
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := resolveConfig(cmd, name); err != nil {
		return err
	}

	p, err := buildProblem(name)
	if err != nil {
		return err
	}

	d := dae.NewWithOptions(p, 0, buildOptions())
	m := tui.NewModel(name, d, targetT)
	_, err = tea.NewProgram(m).Run()
	return err
}
