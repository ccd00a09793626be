package ingest

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"ragagent/internal/entity"
)

// FolderLister lists the direct children of a Drive folder, one page at a
// time. An empty page token requests the first page; an empty NextPageToken
// in the result marks the last one.
type FolderLister interface {
	ListChildren(ctx context.Context, folderID, pageToken string, pageSize int) (*entity.DriveListPage, error)
}

const defaultPageSize = 1000

// Walker traverses a Drive folder tree and collects document reference URIs
// for its leaf items. Traversal is strictly sequential; one Walk call owns
// its visited set, so concurrent walks never share state.
type Walker struct {
	lister   FolderLister
	pageSize int
}

// NewWalker builds a walker over the given lister. pageSize caps how many
// items one listing call may return; zero or negative selects the default.
func NewWalker(lister FolderLister, pageSize int) *Walker {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Walker{
		lister:   lister,
		pageSize: pageSize,
	}
}

// Walk returns at most maxItems references, in pre-order: each folder's
// children in listing order, subfolders expanded in place when
// includeSubfolders is set. Folders already expanded during this call are
// skipped, which keeps cyclic folder graphs finite. A listing failure inside
// the tree is logged and skipped; only an unreachable root is returned as an
// error.
func (w *Walker) Walk(ctx context.Context, folderID string, includeSubfolders bool, maxItems int) ([]string, error) {
	if maxItems <= 0 {
		return nil, nil
	}

	visited := make(map[string]struct{})
	refs, err := w.collect(ctx, folderID, includeSubfolders, maxItems, visited, true)
	if err != nil {
		return nil, fmt.Errorf("list drive folder %s: %w", folderID, err)
	}

	return refs, nil
}

// collect expands a single folder. root selects the error policy: the root
// folder's first page must be listable, everything below is best-effort.
func (w *Walker) collect(
	ctx context.Context,
	folderID string,
	includeSubfolders bool,
	maxItems int,
	visited map[string]struct{},
	root bool,
) ([]string, error) {
	if _, ok := visited[folderID]; ok {
		return nil, nil
	}
	// Mark before listing, so a folder reachable through its own descendants
	// is expanded exactly once.
	visited[folderID] = struct{}{}

	var refs []string
	pageToken := ""

	for len(refs) < maxItems {
		pageSize := w.pageSize
		if remaining := maxItems - len(refs); remaining < pageSize {
			pageSize = remaining
		}

		page, err := w.lister.ListChildren(ctx, folderID, pageToken, pageSize)
		if err != nil {
			if root && len(refs) == 0 && pageToken == "" {
				return nil, err
			}
			ctxzap.Warn(ctx, "skipping unreadable drive folder",
				zap.String("folder_id", folderID),
				zap.Error(err),
			)
			break
		}

		if len(page.Items) == 0 {
			break
		}

		for i := range page.Items {
			item := &page.Items[i]

			switch {
			case item.IsFolder() && includeSubfolders:
				subRefs, _ := w.collect(ctx, item.ID, true, maxItems-len(refs), visited, false)
				refs = append(refs, subRefs...)
			case item.IsFolder():
				// Subfolder traversal disabled by the caller.
			default:
				refs = append(refs, entity.FileViewURL(item.ID))
			}

			if len(refs) >= maxItems {
				break
			}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(refs) > maxItems {
		refs = refs[:maxItems]
	}

	return refs, nil
}
