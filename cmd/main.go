package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"

	"github.com/edp1096/toy-mna/pkg/analysis"
	"github.com/edp1096/toy-mna/pkg/circuit"
	"github.com/edp1096/toy-mna/pkg/matrix"
	"github.com/edp1096/toy-mna/pkg/netlist"
	"github.com/edp1096/toy-mna/pkg/util"
)

var (
	solverName = flag.String("solver", "dense", "linear solver: dense or sparse")
	strict     = flag.Bool("strict", false, "require node ids 1..N and source numbers 1..M")
	verbose    = flag.Bool("v", false, "log assembly and solve details")
	showSystem = flag.Bool("system", false, "print the assembled equations")
)

func newLogger(verbose bool) (zerolog.Logger, logr.Logger) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	zlog := zerolog.New(output).Level(level).With().Timestamp().Logger()

	return zlog, zerologr.New(&zlog).WithName("mna")
}

func newSolver(name string) (matrix.Solver, error) {
	switch name {
	case "dense":
		return matrix.NewLUSolver(), nil
	case "sparse":
		return matrix.NewSparseSolver(), nil
	default:
		return nil, fmt.Errorf("unknown solver %q, want dense or sparse", name)
	}
}

func getKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitNames(results map[string][]float64) (voltageNames, currentNames []string) {
	for _, name := range getKeys(results) {
		if strings.HasPrefix(name, "V(") {
			voltageNames = append(voltageNames, name)
		} else if strings.HasPrefix(name, "I(") {
			currentNames = append(currentNames, name)
		}
	}
	return voltageNames, currentNames
}

func printResults(results map[string][]float64, sweepNames []string) {
	fmt.Println("\nAnalysis Results:")
	fmt.Println("================")

	voltageNames, currentNames := splitNames(results)

	// DC Sweep
	if sweep1, isDC := results["SWEEP1"]; isDC {
		fmt.Printf("\nDC Sweep Analysis Results (%d points):\n", len(sweep1))
		fmt.Println("Sweep Values    Node Voltages        Branch Currents")
		fmt.Println("------------------------------------------------")

		sweep2, hasNested := results["SWEEP2"]
		for i := range sweep1 {
			if hasNested {
				fmt.Printf("%s=%-11s %s=%-11s  ",
					sweepNames[0], util.FormatValueFactor(sweep1[i], ""),
					sweepNames[1], util.FormatValueFactor(sweep2[i], ""))
			} else {
				fmt.Printf("%s=%-11s  ", sweepNames[0], util.FormatValueFactor(sweep1[i], ""))
			}

			for _, name := range voltageNames {
				fmt.Printf("%s=%s  ", name, util.FormatValueFactor(results[name][i], "V"))
			}
			for _, name := range currentNames {
				fmt.Printf("%s=%s  ", name, util.FormatValueFactor(results[name][i], "A"))
			}
			fmt.Println()
		}
		return
	}

	// Operating point
	fmt.Println("\nNode Voltages:")
	for _, name := range voltageNames {
		fmt.Printf("%s = %s\n", name, util.FormatValueFactor(results[name][0], "V"))
	}
	fmt.Println("\nBranch Currents:")
	for _, name := range currentNames {
		fmt.Printf("%s = %s\n", name, util.FormatValueFactor(results[name][0], "A"))
	}
}

func run(path string, log logr.Logger) error {
	// 1. Open and read netlist
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading netlist file: %w", err)
	}

	// 2. Parse netlist
	ckt, err := netlist.Parse(string(content))
	if err != nil {
		return fmt.Errorf("parsing netlist: %w", err)
	}
	log.V(1).Info("parsed netlist", "title", ckt.Title, "elements", len(ckt.Elements), "analysis", ckt.Analysis.String())

	// 3. Setup circuit
	solver, err := newSolver(*solverName)
	if err != nil {
		return err
	}
	opts := []circuit.Option{circuit.WithLogger(log), circuit.WithSolver(solver)}
	if *strict {
		opts = append(opts, circuit.WithDenseIDs())
	}

	topo, err := netlist.Build(ckt.Elements, opts...)
	if err != nil {
		return fmt.Errorf("building circuit: %w", err)
	}

	if *showSystem {
		if err := topo.Netlist.Assemble(); err != nil {
			return fmt.Errorf("assembling circuit: %w", err)
		}
		sys, err := topo.Netlist.System()
		if err != nil {
			return err
		}
		sys.Print(os.Stdout)
	}

	// 4. Setup analyzer
	var analyzer analysis.Analysis
	var sweepNames []string
	switch ckt.Analysis {
	case netlist.AnalysisOP:
		analyzer = analysis.NewOP()
	case netlist.AnalysisDC:
		param := ckt.DCParam
		if param.Source2 != "" {
			// nested sweep
			sweepNames = []string{param.Source1, param.Source2}
			analyzer = analysis.NewDCSweep(
				sweepNames,
				[]float64{param.Start1, param.Start2},
				[]float64{param.Stop1, param.Stop2},
				[]float64{param.Increment1, param.Increment2},
			)
		} else {
			// single sweep
			sweepNames = []string{param.Source1}
			analyzer = analysis.NewDCSweep(
				sweepNames,
				[]float64{param.Start1},
				[]float64{param.Stop1},
				[]float64{param.Increment1},
			)
		}
	default:
		return fmt.Errorf("unsupported analysis type: %v", ckt.Analysis)
	}

	if err := analyzer.Setup(topo); err != nil {
		return fmt.Errorf("analysis setup failed: %w", err)
	}

	// 5. Run analysis
	if err := analyzer.Execute(); err != nil {
		return fmt.Errorf("analysis execution failed: %w", err)
	}

	// 6. Print result
	if ckt.Title != "" {
		fmt.Printf("\n%s\n", ckt.Title)
	}
	printResults(analyzer.GetResults(), sweepNames)
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <netlist_file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	zlog, log := newLogger(*verbose)
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), log); err != nil {
		zlog.Fatal().Err(err).Str("netlist", flag.Arg(0)).Msg("simulation failed")
	}
}
