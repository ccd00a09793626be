package validator

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"ragagent/internal/entity"
)

const maxMessageLength = 8000

// ValidateChatRequest checks the chat request body before it reaches the
// agent.
func ValidateChatRequest(req *entity.ChatRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Message,
			validation.Required,
			validation.Length(1, maxMessageLength),
		),
		validation.Field(&req.UserID, validation.Length(0, 128)),
		validation.Field(&req.SessionID, validation.Length(0, 128)),
	)
}
