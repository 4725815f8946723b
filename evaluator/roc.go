//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package evaluator

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// thresholdsFileSuffix names the per-model optimal thresholds CSV.
const thresholdsFileSuffix = "_optimal_thresholds.csv"

// thresholdHeader is the exact column header of the thresholds CSV.
var thresholdHeader = []string{"ClassIndex", "OptimalThreshold", "AUC"}

// ROCPoint is one sampled operating point of a per-class ROC curve.
type ROCPoint struct {
	// Threshold is the decision threshold that produced this point.
	Threshold float64
	// TPR is the true positive rate at the threshold.
	TPR float64
	// FPR is the false positive rate at the threshold.
	FPR float64
}

// OptimalThreshold is the selected operating point of one class.
type OptimalThreshold struct {
	// Threshold maximizes Youden's J statistic (TPR - FPR) over the curve.
	Threshold float64
	// AUC is the trapezoidal area under the full curve.
	AUC float64
}

// FindOptimalThresholds selects, for each class, the threshold maximizing
// Youden's J statistic over the supplied ROC samples. Equal J values resolve
// to the lowest threshold, which makes the search deterministic. Classes
// with an empty curve are left out of the result.
func FindOptimalThresholds(curves map[int][]ROCPoint) map[int]OptimalThreshold {
	result := make(map[int]OptimalThreshold, len(curves))
	for classIndex, points := range curves {
		if len(points) == 0 {
			continue
		}
		sorted := make([]ROCPoint, len(points))
		copy(sorted, points)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })

		best := sorted[0]
		bestJ := best.TPR - best.FPR
		for _, p := range sorted[1:] {
			// Strictly greater keeps the lowest threshold on ties.
			if j := p.TPR - p.FPR; j > bestJ {
				best, bestJ = p, j
			}
		}
		result[classIndex] = OptimalThreshold{Threshold: best.Threshold, AUC: AUC(points)}
	}
	return result
}

// AUC computes the trapezoidal area under the ROC samples, ordered by FPR.
func AUC(points []ROCPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	sorted := make([]ROCPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].FPR != sorted[j].FPR {
			return sorted[i].FPR < sorted[j].FPR
		}
		return sorted[i].TPR < sorted[j].TPR
	})
	area := 0.0
	for i := 1; i < len(sorted); i++ {
		width := sorted[i].FPR - sorted[i-1].FPR
		area += width * (sorted[i].TPR + sorted[i-1].TPR) / 2
	}
	return area
}

// WriteThresholdCSV exports the optimal thresholds to
// <outputDir>/<modelName>_optimal_thresholds.csv, one row per class in
// ascending class order, and returns the path.
func (e *Evaluator) WriteThresholdCSV(thresholds map[int]OptimalThreshold) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.outputDir, e.modelName+thresholdsFileSuffix)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	classes := make([]int, 0, len(thresholds))
	for classIndex := range thresholds {
		classes = append(classes, classIndex)
	}
	sort.Ints(classes)

	w := csv.NewWriter(f)
	if err := w.Write(thresholdHeader); err != nil {
		return "", fmt.Errorf("write threshold header: %w", err)
	}
	for _, classIndex := range classes {
		t := thresholds[classIndex]
		row := []string{
			strconv.Itoa(classIndex),
			strconv.FormatFloat(t.Threshold, 'f', 6, 64),
			strconv.FormatFloat(t.AUC, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write threshold row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush thresholds: %w", err)
	}
	return path, nil
}
