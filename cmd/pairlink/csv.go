package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"PairLink/internal/domain/models"
)

// readPairCSV loads columns y and x of a headed CSV into an evaluation
// request named after the columns. The date column feeds the index when
// present. Rows missing either price are dropped.
func readPairCSV(r io.Reader, dateCol, yCol, xCol string) (*models.PairEvaluationRequest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	yi, ok := cols[yCol]
	if !ok {
		return nil, fmt.Errorf("column %q not found", yCol)
	}
	xi, ok := cols[xCol]
	if !ok {
		return nil, fmt.Errorf("column %q not found", xCol)
	}
	dateIdx, hasDate := cols[dateCol]

	req := &models.PairEvaluationRequest{SymbolY: yCol, SymbolX: xCol}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ys, xs := strings.TrimSpace(rec[yi]), strings.TrimSpace(rec[xi])
		if ys == "" || xs == "" {
			continue
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d column %s: %w", line, yCol, err)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d column %s: %w", line, xCol, err)
		}
		req.Y = append(req.Y, y)
		req.X = append(req.X, x)
		if hasDate {
			req.Index = append(req.Index, strings.TrimSpace(rec[dateIdx]))
		}
	}
	if len(req.Y) == 0 {
		return nil, errors.New("no complete rows")
	}
	return req, nil
}
