package drive

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/config"
	"ragagent/internal/entity"
	"ragagent/internal/integration/common"
	pkghttp "ragagent/pkg/http"
)

// Connector talks to the Drive gateway. Listings exclude trashed items
// server-side via the query it sends.
type Connector struct {
	config    config.DriveConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.DriveConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig),
		config:    cfg,
		logger:    logger,
	}
}

// ListChildren returns one page of the direct children of a folder.
// GET {list_endpoint}?q='{folder_id}' in parents and trashed=false
func (c *Connector) ListChildren(ctx context.Context, folderID, pageToken string, pageSize int) (*entity.DriveListPage, error) {
	opts := []pkghttp.RequestOpt{
		pkghttp.WithQuery("q", fmt.Sprintf("'%s' in parents and trashed=false", folderID)),
		pkghttp.WithQuery("pageSize", strconv.Itoa(pageSize)),
		pkghttp.WithQuery("fields", "nextPageToken, files(id, name, mimeType, parents)"),
	}
	if pageToken != "" {
		opts = append(opts, pkghttp.WithQuery("pageToken", pageToken))
	}

	var page entity.DriveListPage
	err := c.connector.DoRequest(ctx, http.MethodGet, c.config.ListEndpoint, nil, &page, opts...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}

	ctxzap.Debug(ctx, "drive folder page listed",
		zap.String("folder_id", folderID),
		zap.Int("item_count", len(page.Items)),
		zap.Bool("has_next_page", page.NextPageToken != ""),
	)

	return &page, nil
}

// GetFolder fetches folder metadata, used to verify access and resolve the
// display name for previews.
func (c *Connector) GetFolder(ctx context.Context, folderID string) (*entity.DriveFolder, error) {
	endpoint := strings.Replace(c.config.GetEndpoint, "{file_id}", folderID, 1)

	var folder entity.DriveFolder
	err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &folder,
		pkghttp.WithQuery("fields", "id, name, mimeType"),
	)
	if err != nil {
		return nil, fmt.Errorf("get folder %s: %w", folderID, err)
	}

	return &folder, nil
}
