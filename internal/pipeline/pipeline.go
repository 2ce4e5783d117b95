// Package pipeline implements the crawl's per-URL processing pipeline: an
// ordered list of named steps, each taking and returning a *PageContext.
// The driver stops early once a step sets ShouldSkip or Error, mirroring
// the spec's validate -> fetch -> metadata -> convert -> dedup -> save
// step sequence without hardcoding which steps run — callers assemble the
// step list (internal/scheduler composes its own for now; this package is
// the reusable primitive other components can build on).
package pipeline

import (
	"context"
	"fmt"

	"github.com/rohmanhakim/docs-crawler/internal/events"
)

// Step is one named stage of the pipeline.
type Step interface {
	Name() string
	Execute(ctx context.Context, pc *PageContext) *PageContext
}

// StepFunc adapts a plain function to Step for steps with no state of
// their own.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, pc *PageContext) *PageContext
}

func (s StepFunc) Name() string { return s.StepName }

func (s StepFunc) Execute(ctx context.Context, pc *PageContext) *PageContext {
	return s.Fn(ctx, pc)
}

// Pipeline drives a PageContext through an ordered list of Steps,
// optionally publishing an events.Event after every step.
type Pipeline struct {
	steps  []Step
	stream *events.Stream
}

// New builds a Pipeline over steps. stream may be nil, in which case no
// events are published.
func New(steps []Step, stream *events.Stream) *Pipeline {
	return &Pipeline{steps: steps, stream: stream}
}

// Run executes every step in order against pc, short-circuiting once a
// step sets ShouldSkip (via Skip or Fail). A step whose Execute panics is
// not recovered here — panics are a programming error, not a page-level
// failure the spec models.
func (p *Pipeline) Run(ctx context.Context, pc *PageContext) *PageContext {
	for _, step := range p.steps {
		if pc.ShouldSkip {
			break
		}

		result := step.Execute(ctx, pc)
		if result != nil {
			pc = result
		}

		if pc.Error != "" && !hasStepPrefix(pc.Error, step.Name()) {
			pc.Error = fmt.Sprintf("%s: %s", step.Name(), pc.Error)
			p.publish(events.FetchFailed(pc.URL, pc.Error))
			continue
		}

		if pc.ShouldSkip && pc.Error == "" {
			p.publish(events.FetchSkipped(pc.URL, events.SkipReason(pc.SkipReason)))
		}
	}
	return pc
}

func hasStepPrefix(message, stepName string) bool {
	prefix := stepName + ": "
	return len(message) >= len(prefix) && message[:len(prefix)] == prefix
}

func (p *Pipeline) publish(ev events.Event) {
	if p.stream != nil {
		p.stream.Publish(ev)
	}
}
