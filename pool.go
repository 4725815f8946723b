//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package evalmetrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/detectionlab/evalmetrics/compare"
	"github.com/detectionlab/evalmetrics/evaluator"
	"github.com/detectionlab/evalmetrics/snapshot"
)

// ModelSource names one model and the evaluation dataset to score it on.
type ModelSource struct {
	Name   string
	Source evaluator.Source
}

type modelEvalParam struct {
	idx       int
	ctx       context.Context
	model     ModelSource
	outputDir string
	logger    *zap.Logger
	snaps     []*snapshot.EvaluationSnapshot
	errs      []error
	wg        *sync.WaitGroup
}

func (p *modelEvalParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.model = ModelSource{}
	p.outputDir = ""
	p.logger = nil
	p.snaps = nil
	p.errs = nil
	p.wg = nil
}

var modelEvalParamPool = &sync.Pool{
	New: func() any { return new(modelEvalParam) },
}

func createModelEvalPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*modelEvalParam)
		if !ok {
			panic("model eval pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			modelEvalParamPool.Put(param)
		}()
		param.snaps[param.idx], param.errs[param.idx] = evaluateModel(
			param.ctx, param.model, param.outputDir, param.logger)
	})
	if err != nil {
		return nil, fmt.Errorf("create model eval pool: %w", err)
	}
	return pool, nil
}

func evaluateModel(ctx context.Context, model ModelSource, outputDir string, logger *zap.Logger) (*snapshot.EvaluationSnapshot, error) {
	ev, err := evaluator.New(model.Name, outputDir, evaluator.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	snap, _, err := ev.Evaluate(ctx, model.Source)
	if err != nil {
		return nil, fmt.Errorf("evaluate model %s: %w", model.Name, err)
	}
	return snap, nil
}

// CompareModels evaluates each model's dataset on a worker pool, then builds
// a comparison report over the resulting snapshots. Any model failing to
// evaluate fails the whole comparison; the collected errors name each model.
func CompareModels(ctx context.Context, models []ModelSource, opt ...Option) (*compare.Report, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no models to compare", compare.ErrInvalidInput)
	}
	opts, err := newOptions(opt...)
	if err != nil {
		return nil, err
	}
	pool, err := createModelEvalPool(opts.parallelism)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	snaps := make([]*snapshot.EvaluationSnapshot, len(models))
	evalErrs := make([]error, len(models))
	var wg sync.WaitGroup
	for idx, model := range models {
		wg.Add(1)
		param := modelEvalParamPool.Get().(*modelEvalParam)
		param.idx = idx
		param.ctx = ctx
		param.model = model
		param.outputDir = opts.outputDir
		param.logger = opts.logger
		param.snaps = snaps
		param.errs = evalErrs
		param.wg = &wg
		if err := pool.Invoke(param); err != nil {
			wg.Done()
			evalErrs[idx] = fmt.Errorf("submit evaluation for model %s: %w", model.Name, err)
			param.reset()
			modelEvalParamPool.Put(param)
		}
	}
	wg.Wait()

	var errs error
	for _, err := range evalErrs {
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	names := make([]string, len(models))
	for i, model := range models {
		names[i] = model.Name
	}
	return compare.New(snaps, names)
}
