package main

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// readLabels reads integer labels separated by whitespace or commas.
func readLabels(path string) ([]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read labels")
	}
	fields := strings.FieldsFunc(string(raw), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	z := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.NewValidationError("labels", "labels must be integers", f)
		}
		z[i] = v
	}
	return z, nil
}

// readXY reads a numeric CSV whose last column is the target.
func readXY(path string, header bool) (*mat.Dense, *mat.VecDense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parse %s", path)
	}
	if header && len(rows) > 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, path)
	}
	cols := len(rows[0])
	if cols < 2 {
		return nil, nil, errors.NewValidationError("data", "need at least one feature column and a target column", cols)
	}

	X := mat.NewDense(len(rows), cols-1, nil)
	y := mat.NewVecDense(len(rows), nil)
	for i, rec := range rows {
		for j, s := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "%s: row %d column %d", path, i, j)
			}
			if j == cols-1 {
				y.SetVec(i, v)
			} else {
				X.Set(i, j, v)
			}
		}
	}
	return X, y, nil
}
