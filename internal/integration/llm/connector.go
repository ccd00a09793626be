package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/config"
	"ragagent/internal/entity"
	"ragagent/internal/integration/common"
	pkgRetry "ragagent/internal/pkg/retry"
	pkghttp "ragagent/pkg/http"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig),
		config:    cfg,
		logger:    logger,
	}
}

// Complete sends the conversation plus tool catalog to the completion
// service and returns either final text or a tool call.
func (c *Connector) Complete(ctx context.Context, req *entity.LLMCompleteRequest) (*entity.LLMCompleteResponse, error) {
	ctxzap.Debug(ctx, "requesting completion",
		zap.Int("message_count", len(req.Messages)),
		zap.Int("tool_count", len(req.Tools)),
	)

	var resp entity.LLMCompleteResponse
	err := pkgRetry.Do(ctx, &c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.CompleteEndpoint, req, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	if resp.Content == "" && resp.ToolCall == nil {
		return nil, fmt.Errorf("invalid completion response: neither content nor tool call")
	}

	return &resp, nil
}
