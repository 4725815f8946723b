//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package confusion provides the confusion matrix value type consumed by the
// metrics calculator and the model evaluator.
package confusion

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates that prediction or label input could not be
// turned into a valid confusion matrix. Callers can match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Matrix is a square count matrix of true class against predicted class.
// Entry (i, j) counts samples of true class i predicted as class j.
// All entries are non-negative; the total equals the number of samples.
type Matrix struct {
	counts [][]int
}

// New creates a zero matrix for the given number of classes.
func New(numClasses int) (*Matrix, error) {
	if numClasses <= 0 {
		return nil, fmt.Errorf("%w: number of classes must be positive, got %d", ErrInvalidInput, numClasses)
	}
	counts := make([][]int, numClasses)
	for i := range counts {
		counts[i] = make([]int, numClasses)
	}
	return &Matrix{counts: counts}, nil
}

// FromCounts creates a matrix from raw counts. The input must be square with
// non-negative entries; it is copied, not retained.
func FromCounts(counts [][]int) (*Matrix, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: counts are empty", ErrInvalidInput)
	}
	m, err := New(len(counts))
	if err != nil {
		return nil, err
	}
	for i, row := range counts {
		if len(row) != len(counts) {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidInput, i, len(row), len(counts))
		}
		for j, c := range row {
			if c < 0 {
				return nil, fmt.Errorf("%w: negative count at (%d, %d)", ErrInvalidInput, i, j)
			}
			m.counts[i][j] = c
		}
	}
	return m, nil
}

// FromLabels reduces two equal-length label sequences into a confusion
// matrix sized 1 + the maximum label seen in either sequence.
func FromLabels(predicted, actual []int) (*Matrix, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("%w: %d predictions against %d labels", ErrInvalidInput, len(predicted), len(actual))
	}
	if len(predicted) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrInvalidInput)
	}
	maxLabel := 0
	for i := range predicted {
		if predicted[i] < 0 || actual[i] < 0 {
			return nil, fmt.Errorf("%w: negative label at index %d", ErrInvalidInput, i)
		}
		if predicted[i] > maxLabel {
			maxLabel = predicted[i]
		}
		if actual[i] > maxLabel {
			maxLabel = actual[i]
		}
	}
	m, err := New(maxLabel + 1)
	if err != nil {
		return nil, err
	}
	for i := range predicted {
		m.counts[actual[i]][predicted[i]]++
	}
	return m, nil
}

// NumClasses returns the matrix dimension.
func (m *Matrix) NumClasses() int {
	return len(m.counts)
}

// Count returns the number of samples of trueClass predicted as predictedClass.
func (m *Matrix) Count(trueClass, predictedClass int) int {
	return m.counts[trueClass][predictedClass]
}

// Add records one sample of trueClass predicted as predictedClass.
func (m *Matrix) Add(trueClass, predictedClass int) error {
	return m.AddN(trueClass, predictedClass, 1)
}

// AddN records n samples of trueClass predicted as predictedClass.
func (m *Matrix) AddN(trueClass, predictedClass, n int) error {
	if trueClass < 0 || trueClass >= len(m.counts) || predictedClass < 0 || predictedClass >= len(m.counts) {
		return fmt.Errorf("%w: class pair (%d, %d) out of range for %d classes",
			ErrInvalidInput, trueClass, predictedClass, len(m.counts))
	}
	if n < 0 {
		return fmt.Errorf("%w: negative sample count %d", ErrInvalidInput, n)
	}
	m.counts[trueClass][predictedClass] += n
	return nil
}

// Merge accumulates another matrix of the same dimension into this one.
func (m *Matrix) Merge(other *Matrix) error {
	if other == nil {
		return fmt.Errorf("%w: other matrix is nil", ErrInvalidInput)
	}
	if other.NumClasses() != m.NumClasses() {
		return fmt.Errorf("%w: cannot merge %d classes into %d classes",
			ErrInvalidInput, other.NumClasses(), m.NumClasses())
	}
	for i, row := range other.counts {
		for j, c := range row {
			m.counts[i][j] += c
		}
	}
	return nil
}

// Trace returns the sum of the diagonal, the count of correct predictions.
func (m *Matrix) Trace() int {
	trace := 0
	for i := range m.counts {
		trace += m.counts[i][i]
	}
	return trace
}

// Total returns the number of evaluated samples.
func (m *Matrix) Total() int {
	total := 0
	for _, row := range m.counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// RowSum returns the support of a true class: true positives plus false negatives.
func (m *Matrix) RowSum(trueClass int) int {
	sum := 0
	for _, c := range m.counts[trueClass] {
		sum += c
	}
	return sum
}

// ColSum returns the predicted-positive count of a class: true positives plus false positives.
func (m *Matrix) ColSum(predictedClass int) int {
	sum := 0
	for i := range m.counts {
		sum += m.counts[i][predictedClass]
	}
	return sum
}

// Counts returns a deep copy of the raw counts.
func (m *Matrix) Counts() [][]int {
	counts := make([][]int, len(m.counts))
	for i, row := range m.counts {
		counts[i] = make([]int, len(row))
		copy(counts[i], row)
	}
	return counts
}
