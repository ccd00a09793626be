package drive

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/entity"
)

// MockConnector serves a small built-in folder tree so the service can run
// without a Drive gateway.
type MockConnector struct {
	logger *zap.Logger
	tree   map[string][]entity.DriveItem
	names  map[string]string
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
		tree: map[string][]entity.DriveItem{
			"mock-root": {
				{ID: "mock-doc-1", Name: "handbook.pdf", MimeType: "application/pdf"},
				{ID: "mock-doc-2", Name: "faq.txt", MimeType: "text/plain"},
				{ID: "mock-sub", Name: "archive", MimeType: entity.FolderMimeType},
			},
			"mock-sub": {
				{ID: "mock-doc-3", Name: "notes.md", MimeType: "text/markdown"},
			},
		},
		names: map[string]string{
			"mock-root": "Mock Documents",
			"mock-sub":  "archive",
		},
	}
}

func (m *MockConnector) ListChildren(ctx context.Context, folderID, pageToken string, pageSize int) (*entity.DriveListPage, error) {
	items, ok := m.tree[folderID]
	if !ok {
		return nil, fmt.Errorf("mock folder %s not found", folderID)
	}

	ctxzap.Info(ctx, "[MOCK] listing drive folder",
		zap.String("folder_id", folderID),
		zap.Int("item_count", len(items)),
	)

	if len(items) > pageSize {
		items = items[:pageSize]
	}
	return &entity.DriveListPage{Items: items}, nil
}

func (m *MockConnector) GetFolder(ctx context.Context, folderID string) (*entity.DriveFolder, error) {
	name, ok := m.names[folderID]
	if !ok {
		return nil, fmt.Errorf("mock folder %s not found", folderID)
	}

	ctxzap.Info(ctx, "[MOCK] getting drive folder", zap.String("folder_id", folderID))

	return &entity.DriveFolder{ID: folderID, Name: name, MimeType: entity.FolderMimeType}, nil
}
