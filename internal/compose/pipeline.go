// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package compose

import (
	"context"
	"fmt"

	"github.com/olegiv/blockpress/internal/model"
)

// Stage names
const (
	StageConditionals = "conditionals"
	StageParameters   = "parameters"
	StageReserved     = "reserved"
)

// Env carries the per-block inputs available to every stage.
type Env struct {
	Page   *model.Page
	Params map[string]string
}

// Stage is one resolution step applied to a block's content.
type Stage interface {
	Name() string
	Resolve(ctx context.Context, env *Env, content string) (string, error)
}

// Pipeline is an ordered list of stages. Each stage sees the output of the
// previous one.
type Pipeline []Stage

// DefaultPipeline returns the standard resolution order: conditionals first
// so predicates see the raw page, then parameters, then reserved tokens.
func DefaultPipeline(src Source, settings Settings) Pipeline {
	return Pipeline{
		conditionalStage{},
		parameterStage{},
		reservedStage{resolver: NewReservedResolver(src, settings)},
	}
}

// Run applies every stage in order.
func (p Pipeline) Run(ctx context.Context, env *Env, content string) (string, error) {
	var err error
	for _, stage := range p {
		content, err = stage.Resolve(ctx, env, content)
		if err != nil {
			return "", fmt.Errorf("%s stage: %w", stage.Name(), err)
		}
	}
	return content, nil
}

// Names returns the stage names in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, stage := range p {
		names[i] = stage.Name()
	}
	return names
}

type conditionalStage struct{}

func (conditionalStage) Name() string { return StageConditionals }

func (conditionalStage) Resolve(_ context.Context, env *Env, content string) (string, error) {
	return EvaluateConditionals(content, env.Page), nil
}

type parameterStage struct{}

func (parameterStage) Name() string { return StageParameters }

func (parameterStage) Resolve(_ context.Context, env *Env, content string) (string, error) {
	return ResolveParameters(content, env.Params), nil
}

type reservedStage struct {
	resolver *ReservedResolver
}

func (reservedStage) Name() string { return StageReserved }

func (s reservedStage) Resolve(ctx context.Context, env *Env, content string) (string, error) {
	return s.resolver.Resolve(ctx, env.Page, content)
}
