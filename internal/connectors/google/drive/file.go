package drive

import (
	"time"

	"google.golang.org/api/drive/v3"
)

// folderMIMEType is Drive's MIME type for folders.
const folderMIMEType = "application/vnd.google-apps.folder"

// FileSummary is the printable subset of a Drive file.
type FileSummary struct {
	ID       string
	Name     string
	MIMEType string
	Size     int64
	Modified time.Time
	Link     string
	IsFolder bool
}

// Summarise converts a Drive file to a summary.
func Summarise(f *drive.File) FileSummary {
	s := FileSummary{
		ID:       f.Id,
		Name:     f.Name,
		MIMEType: f.MimeType,
		Size:     f.Size,
		Link:     f.WebViewLink,
		IsFolder: f.MimeType == folderMIMEType,
	}

	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			s.Modified = t
		}
	}

	return s
}
