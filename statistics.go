package rbm

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Statistics records how training went, one entry per epoch.
type Statistics struct {
	Epochs     []int
	ReconError []float32 // mean squared reconstruction error per example
	Durations  []time.Duration
}

func makeStatistics() Statistics {
	return Statistics{
		Epochs:     make([]int, 0, 64),
		ReconError: make([]float32, 0, 64),
		Durations:  make([]time.Duration, 0, 64),
	}
}

func (s *Statistics) update(epoch int, reconErr float32, took time.Duration) {
	s.Epochs = append(s.Epochs, epoch)
	s.ReconError = append(s.ReconError, reconErr)
	s.Durations = append(s.Durations, took)
}

// Dump writes the statistics as CSV into filename.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"epoch", "reconstruction_error", "seconds"}); err != nil {
		return errors.WithStack(err)
	}
	records := make([][]string, 0, len(s.Epochs))
	for i, epoch := range s.Epochs {
		records = append(records, []string{
			strconv.Itoa(epoch),
			strconv.FormatFloat(float64(s.ReconError[i]), 'f', 6, 32),
			strconv.FormatFloat(s.Durations[i].Seconds(), 'f', 3, 64),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return errors.WithStack(err)
	}
	w.Flush()
	return errors.WithStack(w.Error())
}

// Plot saves a line plot of the reconstruction error against the epoch. The format follows the extension of filename.
func (s *Statistics) Plot(filename string) error {
	pts := make(plotter.XYs, len(s.Epochs))
	for i := range pts {
		pts[i].X = float64(s.Epochs[i])
		pts[i].Y = float64(s.ReconError[i])
	}

	p := plot.New()
	p.Title.Text = "Reconstruction error"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Mean squared error"
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrapf(err, "Unable to plot %d epochs", len(pts))
	}
	p.Add(line)
	return errors.WithStack(p.Save(6*vg.Inch, 4*vg.Inch, filename))
}
