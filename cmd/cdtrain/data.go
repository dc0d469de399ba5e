package main

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// readCSV reads one example per row. All rows must have the same number of columns.
func readCSV(datapath string) (*tensor.Dense, error) {
	file, err := os.Open(datapath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comment = '#'
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read %v", datapath)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("%v has no examples", datapath)
	}

	cols := len(rows[0])
	backing := make([]float32, 0, len(rows)*cols)
	for i, row := range rows {
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 32)
			if err != nil {
				return nil, errors.Wrapf(err, "Row %d, column %d", i, j)
			}
			backing = append(backing, float32(v))
		}
	}
	return tensor.New(tensor.WithBacking(backing), tensor.WithShape(len(rows), cols)), nil
}
