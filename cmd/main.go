package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/edp1096/circuit-solver/pkg/analysis"
	"github.com/edp1096/circuit-solver/pkg/circuit"
	"github.com/edp1096/circuit-solver/pkg/netlist"
	"github.com/edp1096/circuit-solver/pkg/util"
)

var (
	verbose  = flag.Bool("v", false, "print netlist details and debug logs")
	dense    = flag.Bool("dense", false, "use the dense LU backend")
	plotFile = flag.String("plot", "", "write a Bode plot of an AC analysis to this file")
)

func getKeys(m map[string][]float64, keep func(string) bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if keep(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func hasPrefix(prefix string) func(string) bool {
	return func(name string) bool { return strings.HasPrefix(name, prefix) }
}

func printResults(results map[string][]float64) {
	fmt.Println("\nAnalysis Results:")
	fmt.Println("================")

	// AC
	if freqs, isAC := results["FREQ"]; isAC {
		fmt.Printf("\nAC Analysis Results (%d frequency points):\n", len(freqs))
		fmt.Println("Frequency      Node Voltages (Magnitude/Phase)        Branch Currents (Magnitude/Phase)")
		fmt.Println("-----------------------------------------------------------------------------")

		var voltageNames, currentNames []string
		for name := range results {
			if strings.HasSuffix(name, "_MAG") {
				baseName := strings.TrimSuffix(name, "_MAG")
				if strings.HasPrefix(baseName, "V(") {
					voltageNames = append(voltageNames, baseName)
				} else if strings.HasPrefix(baseName, "I(") {
					currentNames = append(currentNames, baseName)
				}
			}
		}
		sort.Strings(voltageNames)
		sort.Strings(currentNames)

		for i, freq := range freqs {
			fmt.Printf("%-13s", util.FormatFrequency(freq))
			for _, name := range append(voltageNames, currentNames...) {
				mag, phase := results[name+"_MAG"], results[name+"_PHASE"]
				fmt.Printf("%s  ", util.FormatMagnitudePhase(name, mag[i], phase[i]))
			}
			fmt.Println()
		}
		return
	}

	// DC Sweep
	if sweep1, isDC := results["SWEEP1"]; isDC {
		fmt.Printf("\nDC Sweep Analysis Results (%d points):\n", len(sweep1))
		fmt.Println("Sweep Values    Node Voltages        Branch Currents")
		fmt.Println("------------------------------------------------")

		voltageNames := getKeys(results, hasPrefix("V("))
		currentNames := getKeys(results, hasPrefix("I("))

		sweep2, hasNested := results["SWEEP2"]
		for i := range sweep1 {
			if hasNested {
				fmt.Printf("S1=%-9s S2=%-9s  ",
					util.FormatValueFactor(sweep1[i], ""),
					util.FormatValueFactor(sweep2[i], ""))
			} else {
				fmt.Printf("S=%-9s  ", util.FormatValueFactor(sweep1[i], ""))
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

	// Sensitivity
	if sens := getKeys(results, hasPrefix("d")); len(sens) > 0 {
		fmt.Println("\nSensitivities:")
		for _, name := range sens {
			fmt.Printf("%s = %g\n", name, results[name][0])
		}
		return
	}

	// Operating point
	fmt.Println("\nNode Voltages:")
	for _, name := range getKeys(results, hasPrefix("V(")) {
		fmt.Printf("%s = %s\n", name, util.FormatValueFactor(results[name][0], "V"))
	}
	fmt.Println("\nComponent Voltages:")
	for _, name := range getKeys(results, hasPrefix("VD(")) {
		fmt.Printf("%s = %s\n", name, util.FormatValueFactor(results[name][0], "V"))
	}
	fmt.Println("\nBranch Currents:")
	for _, name := range getKeys(results, hasPrefix("I(")) {
		fmt.Printf("%s = %s\n", name, util.FormatValueFactor(results[name][0], "A"))
	}
}

// printPhasors lists complex results of a single point solve.
func printPhasors(phasors map[string][]complex128) {
	names := make([]string, 0, len(phasors))
	for name := range phasors {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nPhasors:")
	for _, name := range names {
		unit := "A"
		if strings.HasPrefix(name, "V") {
			unit = "V"
		}
		if strings.HasPrefix(name, "d") {
			fmt.Printf("%s = %v\n", name, phasors[name][0])
			continue
		}
		fmt.Printf("%s = %s\n", name, util.FormatPhasor(phasors[name][0], unit))
	}
}

func newAnalyzer(data *netlist.NetlistData) analysis.Analysis {
	switch data.Analysis {
	case netlist.AnalysisOP:
		return analysis.NewOP()
	case netlist.AnalysisAC:
		param := data.ACParam
		return analysis.NewAC(param.FStart, param.FStop, param.Points, param.Sweep)
	case netlist.AnalysisDC:
		param := data.DCParam
		if param.Source2 != "" {
			// nested sweep
			return analysis.NewDCSweep(
				[]string{param.Source1, param.Source2},
				[]float64{param.Start1, param.Start2},
				[]float64{param.Stop1, param.Stop2},
				[]float64{param.Increment1, param.Increment2},
			)
		}
		// single sweep
		return analysis.NewDCSweep(
			[]string{param.Source1},
			[]float64{param.Start1},
			[]float64{param.Stop1},
			[]float64{param.Increment1},
		)
	case netlist.AnalysisSENS:
		return analysis.NewSensitivity(data.SensParam.Component, data.SensParam.Freq)
	}
	log.Fatal("Unsupported analysis type")
	return nil
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("Usage: solver [-v] [-dense] [-plot bode.png] <netlist_file>")
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// 1. Open and read netlist
	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Error reading netlist file: %v", err)
	}

	// 2. Parse netlist
	data, err := netlist.Parse(string(content))
	if err != nil {
		log.Fatalf("Error parsing netlist: %v", err)
	}
	if *verbose {
		fmt.Printf("Title: %s\n", data.Title)
		fmt.Printf("Circuit elements: %d\n", len(data.Elements))
		for i, elem := range data.Elements {
			fmt.Printf("Element %d: %s (type: %s, nodes: %v, value: %v)\n",
				i, elem.Name, elem.Type, elem.Nodes, elem.Value)
		}
		for i, br := range data.Branches {
			fmt.Printf("Branch %d: %s -> %s %v\n", i, br.NodeA, br.NodeB, br.Parts)
		}
	}

	// 3. Setup circuit
	opts := []circuit.Option{circuit.WithLogger(logger)}
	if *dense {
		opts = append(opts, circuit.WithBackend(circuit.DenseBackend))
	}
	ckt, err := netlist.Build(data, opts...)
	if err != nil {
		log.Fatalf("Error creating circuit: %v", err)
	}
	if *verbose {
		fmt.Printf("Reference node: %s\n", ckt.Reference())
		for name, idx := range ckt.GetNodeMap() {
			fmt.Printf("  Node '%s' -> index %d\n", name, idx)
		}
		for name, idx := range ckt.GetBranchMap() {
			fmt.Printf("  Source '%s' -> index %d\n", name, idx)
		}
	}

	// 4. Setup analyzer
	analyzer := newAnalyzer(data)
	if err := analyzer.Setup(ckt); err != nil {
		log.Fatalf("Analysis setup failed: %v", err)
	}

	// 5. Run analysis
	if err := analyzer.Execute(); err != nil {
		log.Fatalf("Analysis execution failed: %v", err)
	}

	// 6. Print result
	printResults(analyzer.GetResults())
	switch a := analyzer.(type) {
	case *analysis.OperatingPoint:
		printPhasors(a.GetPhasors())
	case *analysis.SensitivityAnalysis:
		printPhasors(a.GetPhasors())
	case *analysis.ACAnalysis:
		if *plotFile != "" {
			if err := saveBode(*plotFile, data.Title, a.GetResults()); err != nil {
				log.Fatalf("Error writing plot: %v", err)
			}
			fmt.Printf("\nBode plot written to %s\n", *plotFile)
		}
	}
}
