package entity

import "encoding/json"

// LLMMessage is one turn of the conversation sent to the completion service.
type LLMMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// ToolSpec describes one callable tool advertised to the completion service.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolCall is the completion service's request to execute a tool.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type LLMCompleteRequest struct {
	Messages []LLMMessage `json:"messages"`
	Tools    []ToolSpec   `json:"tools,omitempty"`
}

// LLMCompleteResponse carries either final text or a tool call, never both.
type LLMCompleteResponse struct {
	Content  string    `json:"content,omitempty"`
	ToolCall *ToolCall `json:"tool_call,omitempty"`
}
