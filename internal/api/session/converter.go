package session

import (
	"time"

	"ragagent/internal/entity"
)

// toSessionDTO converts Session entity to SessionDTO
func toSessionDTO(session *entity.Session) *entity.SessionDTO {
	dto := &entity.SessionDTO{
		SessionID: session.ID,
		UserID:    session.UserID,
		Messages:  make([]entity.MessageDTO, 0, len(session.Messages)),
	}

	for _, m := range session.Messages {
		dto.Messages = append(dto.Messages, entity.MessageDTO{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	return dto
}
