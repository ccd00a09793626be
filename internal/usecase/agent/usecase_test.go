package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ragagent/internal/entity"
	"ragagent/internal/usecase/corpus"
)

// scriptedLLM replays a fixed sequence of completions and records every
// request it was sent.
type scriptedLLM struct {
	script   []*entity.LLMCompleteResponse
	requests []*entity.LLMCompleteRequest
}

func (s *scriptedLLM) Complete(_ context.Context, req *entity.LLMCompleteRequest) (*entity.LLMCompleteResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.script) == 0 {
		return nil, errors.New("script exhausted")
	}
	resp := s.script[0]
	s.script = s.script[1:]
	return resp, nil
}

type fakeCorpora struct {
	created    []string
	ingested   []corpus.BulkIngestParams
	listResult []entity.Corpus
	queryErr   error
}

func (f *fakeCorpora) CreateCorpus(_ context.Context, displayName, _ string) (*entity.Corpus, error) {
	f.created = append(f.created, displayName)
	return &entity.Corpus{ID: "c-1", DisplayName: displayName}, nil
}

func (f *fakeCorpora) ListCorpora(_ context.Context) ([]entity.Corpus, error) {
	return f.listResult, nil
}

func (f *fakeCorpora) DeleteCorpus(_ context.Context, _ string) error { return nil }

func (f *fakeCorpora) AddDocuments(_ context.Context, _ string, refs []string) (*entity.RAGImportResponse, error) {
	return &entity.RAGImportResponse{Status: "success", FilesAdded: len(refs)}, nil
}

func (f *fakeCorpora) Query(_ context.Context, _, _ string, _ int) (*entity.RAGQueryResponse, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &entity.RAGQueryResponse{Chunks: []entity.RAGQueryChunk{{Text: "refunds take 14 days", Source: "policy.pdf"}}}, nil
}

func (f *fakeCorpora) BulkIngestFolder(_ context.Context, params corpus.BulkIngestParams) *entity.IngestReport {
	f.ingested = append(f.ingested, params)
	return &entity.IngestReport{Status: entity.IngestStatusSuccess, TotalFilesAdded: 3, CorpusName: params.CorpusName}
}

func (f *fakeCorpora) PreviewFolder(_ context.Context, params corpus.PreviewParams) (*entity.FolderPreview, error) {
	return &entity.FolderPreview{FolderID: params.DriveFolderID, TotalFilesFound: 2, Files: []string{"a", "b"}}, nil
}

type fakeSessions struct {
	history  []entity.Message
	recorded [][2]string
}

func (f *fakeSessions) History(_ context.Context, _, _ string) ([]entity.Message, error) {
	return f.history, nil
}

func (f *fakeSessions) RecordExchange(_ context.Context, _, _, userText, assistantText string) error {
	f.recorded = append(f.recorded, [2]string{userText, assistantText})
	return nil
}

func toolCall(name, args string) *entity.LLMCompleteResponse {
	return &entity.LLMCompleteResponse{
		ToolCall: &entity.ToolCall{Name: name, Arguments: json.RawMessage(args)},
	}
}

func textReply(text string) *entity.LLMCompleteResponse {
	return &entity.LLMCompleteResponse{Content: text}
}

func TestChat_PlainAnswerWithoutTools(t *testing.T) {
	llm := &scriptedLLM{script: []*entity.LLMCompleteResponse{textReply("hello")}}
	sessions := &fakeSessions{}
	uc := NewUsecase(llm, &fakeCorpora{}, sessions, zap.NewNop())

	answer, err := uc.Chat(context.Background(), "u1", "s1", "hi")

	require.NoError(t, err)
	assert.Equal(t, "hello", answer)
	require.Len(t, sessions.recorded, 1)
	assert.Equal(t, [2]string{"hi", "hello"}, sessions.recorded[0])
}

func TestChat_SystemPromptAndHistoryPrecedeUserMessage(t *testing.T) {
	llm := &scriptedLLM{script: []*entity.LLMCompleteResponse{textReply("ok")}}
	sessions := &fakeSessions{history: []entity.Message{
		{Role: entity.RoleUser, Content: "earlier question"},
		{Role: entity.RoleAssistant, Content: "earlier answer"},
	}}
	uc := NewUsecase(llm, &fakeCorpora{}, sessions, zap.NewNop())

	_, err := uc.Chat(context.Background(), "u1", "s1", "and now?")

	require.NoError(t, err)
	require.Len(t, llm.requests, 1)
	msgs := llm.requests[0].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, entity.RoleSystem, msgs[0].Role)
	assert.Equal(t, "earlier question", msgs[1].Content)
	assert.Equal(t, "earlier answer", msgs[2].Content)
	assert.Equal(t, "and now?", msgs[3].Content)
}

func TestChat_ExecutesToolThenAnswers(t *testing.T) {
	llm := &scriptedLLM{script: []*entity.LLMCompleteResponse{
		toolCall("bulk_ingest_drive", `{"corpus_name":"docs","drive_folder_id":"root"}`),
		textReply("ingested 3 files"),
	}}
	corpora := &fakeCorpora{}
	uc := NewUsecase(llm, corpora, &fakeSessions{}, zap.NewNop())

	answer, err := uc.Chat(context.Background(), "u1", "s1", "ingest the root folder into docs")

	require.NoError(t, err)
	assert.Equal(t, "ingested 3 files", answer)
	require.Len(t, corpora.ingested, 1)
	assert.Equal(t, "docs", corpora.ingested[0].CorpusName)
	assert.Equal(t, "root", corpora.ingested[0].DriveFolderID)

	// second completion request carries the tool result
	require.Len(t, llm.requests, 2)
	last := llm.requests[1].Messages[len(llm.requests[1].Messages)-1]
	assert.Equal(t, entity.RoleTool, last.Role)
	assert.Contains(t, last.Content, `"total_files_added":3`)
}

func TestChat_ToolErrorIsFedBackToModel(t *testing.T) {
	llm := &scriptedLLM{script: []*entity.LLMCompleteResponse{
		toolCall("rag_query", `{"corpus_name":"docs","query":"refunds"}`),
		textReply("I could not query the corpus"),
	}}
	corpora := &fakeCorpora{queryErr: entity.ErrCorpusNotFound}
	uc := NewUsecase(llm, corpora, &fakeSessions{}, zap.NewNop())

	answer, err := uc.Chat(context.Background(), "u1", "s1", "what about refunds?")

	require.NoError(t, err)
	assert.Equal(t, "I could not query the corpus", answer)
	last := llm.requests[1].Messages[len(llm.requests[1].Messages)-1]
	assert.Equal(t, entity.RoleTool, last.Role)
	assert.Contains(t, last.Content, `"status":"error"`)
}

func TestChat_UnknownToolFails(t *testing.T) {
	llm := &scriptedLLM{script: []*entity.LLMCompleteResponse{
		toolCall("drop_database", `{}`),
	}}
	uc := NewUsecase(llm, &fakeCorpora{}, &fakeSessions{}, zap.NewNop())

	_, err := uc.Chat(context.Background(), "u1", "s1", "do something weird")

	require.ErrorIs(t, err, entity.ErrUnknownTool)
}

func TestChat_ToolLoopIsBounded(t *testing.T) {
	script := make([]*entity.LLMCompleteResponse, 0, maxToolIterations+1)
	for i := 0; i <= maxToolIterations; i++ {
		script = append(script, toolCall("list_corpora", `{}`))
	}
	llm := &scriptedLLM{script: script}
	uc := NewUsecase(llm, &fakeCorpora{}, &fakeSessions{}, zap.NewNop())

	_, err := uc.Chat(context.Background(), "u1", "s1", "loop forever")

	require.ErrorIs(t, err, entity.ErrToolLimitReached)
}

func TestChat_AdvertisesAllTools(t *testing.T) {
	llm := &scriptedLLM{script: []*entity.LLMCompleteResponse{textReply("ok")}}
	uc := NewUsecase(llm, &fakeCorpora{}, &fakeSessions{}, zap.NewNop())

	_, err := uc.Chat(context.Background(), "u1", "s1", "hi")

	require.NoError(t, err)
	names := make([]string, 0, len(llm.requests[0].Tools))
	for _, spec := range llm.requests[0].Tools {
		names = append(names, spec.Name)
	}
	assert.ElementsMatch(t, names, []string{
		"create_corpus", "list_corpora", "delete_corpus", "add_data",
		"rag_query", "bulk_ingest_drive", "get_drive_folder_contents",
	})
}
