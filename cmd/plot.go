package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/edp1096/circuit-solver/pkg/util"
)

// saveBode writes node voltage magnitudes in dB to file and their phases
// to a sibling file with a _phase suffix.
func saveBode(file, title string, results map[string][]float64) error {
	freqs := results["FREQ"]
	if len(freqs) < 2 {
		return fmt.Errorf("need at least two frequency points, got %d", len(freqs))
	}
	if freqs[0] <= 0 {
		return fmt.Errorf("log frequency axis needs positive frequencies, got %g", freqs[0])
	}

	nodes := getKeys(results, func(name string) bool {
		return strings.HasPrefix(name, "V(") && strings.HasSuffix(name, "_MAG")
	})
	if len(nodes) == 0 {
		return fmt.Errorf("no node voltages to plot")
	}

	mag := newBodePlot(title, "Magnitude (dB)")
	phase := newBodePlot(title, "Phase (deg)")

	var magLines, phaseLines []any
	for _, key := range nodes {
		name := strings.TrimSuffix(key, "_MAG")
		magPts := make(plotter.XYs, len(freqs))
		phasePts := make(plotter.XYs, len(freqs))
		for i, f := range freqs {
			magPts[i].X, phasePts[i].X = f, f
			magPts[i].Y = util.Decibels(results[key][i])
			phasePts[i].Y = results[name+"_PHASE"][i]
		}
		magLines = append(magLines, name, magPts)
		phaseLines = append(phaseLines, name, phasePts)
	}

	if err := plotutil.AddLines(mag, magLines...); err != nil {
		return err
	}
	if err := plotutil.AddLines(phase, phaseLines...); err != nil {
		return err
	}

	if err := mag.Save(8*vg.Inch, 5*vg.Inch, file); err != nil {
		return err
	}
	ext := filepath.Ext(file)
	return phase.Save(8*vg.Inch, 5*vg.Inch, strings.TrimSuffix(file, ext)+"_phase"+ext)
}

func newBodePlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = yLabel
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}
