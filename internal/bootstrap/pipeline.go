package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Step interface {
	Name() string
	Run(ctx context.Context) error
}

// Pipeline runs its steps in order and stops at the first failure.
type Pipeline struct {
	steps []Step
}

func NewPipeline(steps ...Step) (Pipeline, error) {
	var p Pipeline

	if len(steps) == 0 {
		return p, fmt.Errorf("steps are empty")
	}

	for idx, step := range steps {
		if step == nil {
			return p, fmt.Errorf("step[%d] is nil", idx)
		}
	}

	return Pipeline{steps: steps}, nil
}

func (p Pipeline) Run(ctx context.Context) error {
	for idx, step := range p.steps {
		start := time.Now()

		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("step.Run[%d][%s]: %w", idx, step.Name(), err)
		}

		slog.Info("bootstrap step done",
			"method", "Pipeline.Run",
			"step", step.Name(),
			"elapsed", time.Since(start))
	}

	return nil
}
