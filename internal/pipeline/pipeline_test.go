package pipeline_test

import (
	"context"
	"testing"

	"github.com/rohmanhakim/docs-crawler/internal/events"
	"github.com/rohmanhakim/docs-crawler/internal/pipeline"
	"github.com/stretchr/testify/assert"
)

func step(name string, fn func(ctx context.Context, pc *pipeline.PageContext) *pipeline.PageContext) pipeline.Step {
	return pipeline.StepFunc{StepName: name, Fn: fn}
}

func TestPipeline_Run_AllStepsExecuteInOrder(t *testing.T) {
	var order []string

	steps := []pipeline.Step{
		step("validate", func(ctx context.Context, pc *pipeline.PageContext) *pipeline.PageContext {
			order = append(order, "validate")
			return pc
		}),
		step("fetch", func(ctx context.Context, pc *pipeline.PageContext) *pipeline.PageContext {
			order = append(order, "fetch")
			return pc
		}),
		step("save", func(ctx context.Context, pc *pipeline.PageContext) *pipeline.PageContext {
			order = append(order, "save")
			return pc
		}),
	}

	p := pipeline.New(steps, nil)
	pc := pipeline.NewPageContext("https://example.com/a")
	result := p.Run(context.Background(), pc)

	assert.Equal(t, []string{"validate", "fetch", "save"}, order)
	assert.False(t, result.ShouldSkip)
	assert.Empty(t, result.Error)
}

func TestPipeline_Run_SkipShortCircuitsRemainingSteps(t *testing.T) {
	var ran []string

	steps := []pipeline.Step{
		step("validate", func(ctx context.Context, pc *pipeline.PageContext) *pipeline.PageContext {
			ran = append(ran, "validate")
			pc.Skip("robots_disallowed")
			return pc
		}),
		step("fetch", func(ctx context.Context, pc *pipeline.PageContext) *pipeline.PageContext {
			ran = append(ran, "fetch")
			return pc
		}),
	}

	p := pipeline.New(steps, nil)
	result := p.Run(context.Background(), pipeline.NewPageContext("https://example.com/a"))

	assert.Equal(t, []string{"validate"}, ran)
	assert.True(t, result.ShouldSkip)
	assert.Equal(t, "robots_disallowed", result.SkipReason)
}

func TestPipeline_Run_StepErrorIsPrefixedWithStepName(t *testing.T) {
	steps := []pipeline.Step{
		step("convert", func(ctx context.Context, pc *pipeline.PageContext) *pipeline.PageContext {
			pc.Fail("no content extracted")
			return pc
		}),
	}

	p := pipeline.New(steps, nil)
	result := p.Run(context.Background(), pipeline.NewPageContext("https://example.com/a"))

	assert.Equal(t, "convert: no content extracted", result.Error)
	assert.True(t, result.ShouldSkip)
}

func TestPipeline_Run_PublishesSkippedEvent(t *testing.T) {
	stream := events.NewStream(4)
	steps := []pipeline.Step{
		step("validate", func(ctx context.Context, pc *pipeline.PageContext) *pipeline.PageContext {
			pc.Skip("dry_run")
			return pc
		}),
	}

	p := pipeline.New(steps, stream)
	p.Run(context.Background(), pipeline.NewPageContext("https://example.com/a"))
	stream.Close()

	var got []events.Event
	for ev := range stream.Events() {
		got = append(got, ev)
	}

	assert.Len(t, got, 1)
	assert.Equal(t, events.TagFetchSkipped, got[0].Tag)
	assert.Equal(t, events.SkipDryRun, got[0].Reason)
}

func TestPageContext_SkipAndFail(t *testing.T) {
	pc := pipeline.NewPageContext("https://example.com/a")
	pc.Skip("cache_unchanged")
	assert.True(t, pc.ShouldSkip)
	assert.Equal(t, "cache_unchanged", pc.SkipReason)

	pc2 := pipeline.NewPageContext("https://example.com/b")
	pc2.Fail("boom")
	assert.True(t, pc2.ShouldSkip)
	assert.Equal(t, "boom", pc2.Error)
}
