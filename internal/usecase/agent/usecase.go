package agent

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/entity"
)

// maxToolIterations bounds one chat turn; a model that keeps calling tools
// past this is looping.
const maxToolIterations = 8

const systemPrompt = "You are a documentation assistant. You manage document corpora, " +
	"ingest Google Drive folders into them, and answer questions from the ingested material. " +
	"Prefer rag_query for answering questions; cite the source of every chunk you use. " +
	"Before a bulk ingestion, preview the folder when the user has not confirmed its contents."

// AgentUsecase runs the tool-calling chat loop around the completion service.
type AgentUsecase struct {
	llm      LLMConnector
	sessions SessionService
	tools    *toolset
	logger   *zap.Logger
}

// NewUsecase creates a new agent use case
func NewUsecase(
	llm LLMConnector,
	corpora CorpusService,
	sessions SessionService,
	logger *zap.Logger,
) *AgentUsecase {
	return &AgentUsecase{
		llm:      llm,
		sessions: sessions,
		tools:    newToolset(corpora),
		logger:   logger,
	}
}

// Chat answers one user message. The model may call tools any number of
// times (bounded) before producing the final text; the exchange is then
// recorded in the session history.
func (uc *AgentUsecase) Chat(ctx context.Context, userID, sessionID, userText string) (string, error) {
	history, err := uc.sessions.History(ctx, userID, sessionID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	messages := make([]entity.LLMMessage, 0, len(history)+2)
	messages = append(messages, entity.LLMMessage{Role: entity.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, entity.LLMMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, entity.LLMMessage{Role: entity.RoleUser, Content: userText})

	var answer string
	for iteration := 0; ; iteration++ {
		if iteration >= maxToolIterations {
			return "", fmt.Errorf("%w: %d tool calls in one turn", entity.ErrToolLimitReached, iteration)
		}

		resp, err := uc.llm.Complete(ctx, &entity.LLMCompleteRequest{
			Messages: messages,
			Tools:    uc.tools.specs,
		})
		if err != nil {
			return "", fmt.Errorf("complete: %w", err)
		}

		if resp.ToolCall == nil {
			answer = resp.Content
			break
		}

		ctxzap.Info(ctx, "executing tool",
			zap.String("tool", resp.ToolCall.Name),
			zap.Int("iteration", iteration+1),
		)

		result, err := uc.tools.execute(ctx, resp.ToolCall)
		if err != nil {
			return "", fmt.Errorf("tool %s: %w", resp.ToolCall.Name, err)
		}

		messages = append(messages,
			entity.LLMMessage{Role: entity.RoleAssistant, Content: fmt.Sprintf("calling tool %s", resp.ToolCall.Name)},
			entity.LLMMessage{Role: entity.RoleTool, Content: result},
		)
	}

	if err := uc.sessions.RecordExchange(ctx, userID, sessionID, userText, answer); err != nil {
		return "", fmt.Errorf("record exchange: %w", err)
	}

	return answer, nil
}
