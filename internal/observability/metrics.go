package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/KayJJUNE/steam-bot"

var (
	meterOnce sync.Once

	repositoryOps      metric.Int64Counter
	questOutcomes      metric.Int64Counter
	verificationEvents metric.Int64Counter
	rewardEvents       metric.Int64Counter
)

func initMeters() {
	meterOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		repositoryOps, _ = meter.Int64Counter("questbot.repository.operations",
			metric.WithDescription("Repository operations by entity, operation and result"))
		questOutcomes, _ = meter.Int64Counter("questbot.quest.outcomes",
			metric.WithDescription("Quest step attempts by step and outcome"))
		verificationEvents, _ = meter.Int64Counter("questbot.verification.events",
			metric.WithDescription("External verification calls by kind and result"))
		rewardEvents, _ = meter.Int64Counter("questbot.reward.events",
			metric.WithDescription("Reward grant attempts by result"))
	})
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, result string) {
	initMeters()
	repositoryOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("result", result),
	))
}

func RecordQuestOutcome(ctx context.Context, step, outcome string) {
	initMeters()
	questOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("outcome", outcome),
	))
}

// RecordVerificationEvent tracks external verification calls, including the
// degraded structural-check fallbacks operators care about.
func RecordVerificationEvent(ctx context.Context, kind, result string) {
	initMeters()
	verificationEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", result),
	))
}

func RecordRewardEvent(ctx context.Context, result string) {
	initMeters()
	rewardEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}
