// Package storage delivers finished documents to their destination.
package storage

import "context"

// UploadResult identifies a stored document.
type UploadResult struct {
	ObjectID string `json:"objectId"`
	Name     string `json:"name"`
	ViewLink string `json:"viewLink,omitempty"`
}

// Uploader stores one document. Implementations make a single attempt;
// failures are reported as *UploadError.
type Uploader interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (UploadResult, error)
}
