// Package lambdafn adapts the filter pipeline to AWS Lambda, the original
// deployment shape for this service: the invocation payload is the wire
// JSON array and the response is the filtered array. Decode failures are
// returned as invocation errors so they land in the function's error
// metrics instead of producing a silently partial result.
package lambdafn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/decode"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/logger"
	"github.com/JohnBasrai/aws-lambda-action-filter/internal/pipeline"
	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

// Function is the Lambda-facing wrapper around the pipeline. The filter
// windows come from configuration at construction time; Lambda deployments
// don't hot-reload, they redeploy.
type Function struct {
	horizonDays  int
	cooldownDays int
	now          func() time.Time
}

// New builds a Function using the config's filter windows. Zero day counts
// select the built-in defaults.
func New(cfg *models.Config) *Function {
	return &Function{
		horizonDays:  cfg.Filter.HorizonDays,
		cooldownDays: cfg.Filter.CooldownDays,
		now:          time.Now,
	}
}

// Handle processes one invocation.
func (f *Function) Handle(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	start := f.now()

	actions, err := decode.Batch(payload)
	if err != nil {
		logger.L().Warn("Rejected invocation payload", "error", err)
		return nil, err
	}

	result, err := pipeline.Process(actions, f.now().UTC(), f.horizonDays, f.cooldownDays)
	if err != nil {
		logger.L().Error("Filter pipeline failed", "error", err)
		return nil, err
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding filter result: %w", err)
	}

	logger.L().Info("Invocation completed",
		"records_in", len(actions),
		"records_out", len(result),
		"duration", time.Since(start))
	return out, nil
}

// Start hands the function to the AWS Lambda runtime and blocks for the
// lifetime of the execution environment.
func (f *Function) Start() {
	lambda.Start(f.Handle)
}
