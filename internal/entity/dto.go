package entity

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the reply of POST /chat.
type ChatResponse struct {
	Response  string `json:"response"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// ErrorResponse is the uniform error payload of the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SessionDTO is the API view of a session.
type SessionDTO struct {
	SessionID string       `json:"session_id"`
	UserID    string       `json:"user_id"`
	Messages  []MessageDTO `json:"messages"`
}

// MessageDTO is the API view of a stored message.
type MessageDTO struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// SessionListDTO is the API view of GET /sessions.
type SessionListDTO struct {
	Sessions []string `json:"sessions"`
	Total    int      `json:"total"`
}
