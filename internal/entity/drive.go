package entity

import "fmt"

// FolderMimeType is the mime type Google Drive assigns to folders.
const FolderMimeType = "application/vnd.google-apps.folder"

// DriveItem is a read-only view of one entry in a Drive folder listing.
type DriveItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType"`
	Parents  []string `json:"parents,omitempty"`
}

// IsFolder reports whether the item can be expanded into children.
func (i *DriveItem) IsFolder() bool {
	return i.MimeType == FolderMimeType
}

// DriveListPage is one page of a children listing. NextPageToken is empty
// on the last page.
type DriveListPage struct {
	Items         []DriveItem `json:"files"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}

// DriveFolder is the metadata of a folder itself, fetched for previews.
type DriveFolder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// FileViewURL builds the stable reference URI for a Drive file. The ingestion
// service resolves the file id back out of this form, so it must not change.
func FileViewURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
}

// FolderPreview describes folder contents without ingesting anything.
type FolderPreview struct {
	FolderID        string   `json:"drive_folder_id"`
	FolderName      string   `json:"folder_name"`
	TotalFilesFound int      `json:"total_files_found"`
	Files           []string `json:"files"`
	ShowingPreview  bool     `json:"showing_preview"`
	IncludeSubdirs  bool     `json:"include_subfolders"`
}
