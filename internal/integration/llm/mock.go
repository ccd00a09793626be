package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/entity"
)

// MockConnector is a canned completion service for local runs. It routes a
// few obvious phrasings to tools and answers everything else directly, which
// is enough to exercise the whole tool loop end to end.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, req *entity.LLMCompleteRequest) (*entity.LLMCompleteResponse, error) {
	ctxzap.Info(ctx, "[MOCK] completion requested",
		zap.Int("message_count", len(req.Messages)),
	)

	if len(req.Messages) == 0 {
		return &entity.LLMCompleteResponse{Content: "Hello! Ask me about your document corpora."}, nil
	}

	last := req.Messages[len(req.Messages)-1]

	// After a tool ran, wrap its raw result into a reply.
	if last.Role == entity.RoleTool {
		return &entity.LLMCompleteResponse{
			Content: fmt.Sprintf("Here is the result:\n%s", last.Content),
		}, nil
	}

	text := strings.ToLower(last.Content)
	switch {
	case strings.Contains(text, "list") && strings.Contains(text, "corp"):
		return toolCall("list_corpora", map[string]any{})
	case strings.Contains(text, "preview") && strings.Contains(text, "folder"):
		return toolCall("get_drive_folder_contents", map[string]any{})
	case strings.Contains(text, "ingest") || strings.Contains(text, "upload"):
		return toolCall("bulk_ingest_drive", map[string]any{"corpus_name": "default"})
	default:
		return &entity.LLMCompleteResponse{
			Content: "I can create, list, query and delete corpora, and bulk-ingest Drive folders. What would you like to do?",
		}, nil
	}
}

func toolCall(name string, args map[string]any) (*entity.LLMCompleteResponse, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal mock tool arguments: %w", err)
	}

	return &entity.LLMCompleteResponse{
		ToolCall: &entity.ToolCall{Name: name, Arguments: raw},
	}, nil
}
