package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readPoints parses one point per CSV row. Blank lines and lines starting
// with '#' are skipped. A first row that does not parse is taken as a
// header.
func readPoints(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var points [][]float64
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		p, err := parseRecord(rec)
		if err != nil {
			if row == 1 {
				continue
			}
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}

	return points, nil
}

func parseRecord(rec []string) ([]float64, error) {
	p := make([]float64, len(rec))
	for i, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		p[i] = v
	}
	return p, nil
}

// writeFloats appends vs to rec formatted with the shortest exact
// representation.
func writeFloats(rec []string, vs []float64) []string {
	for _, v := range vs {
		rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return rec
}

func writeInts(rec []string, vs []int) []string {
	for _, v := range vs {
		rec = append(rec, strconv.Itoa(v))
	}
	return rec
}
