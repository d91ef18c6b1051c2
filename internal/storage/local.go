package storage

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
)

// LocalUploader writes documents into a directory. Writes go through a
// temporary file and a rename so readers never see a partial document.
type LocalUploader struct {
	dir string
}

func NewLocalUploader(dir string) (*LocalUploader, error) {
	if dir == "" {
		return nil, errors.New("local upload dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalUploader{dir: abs}, nil
}

func (u *LocalUploader) Dir() string { return u.dir }

func (u *LocalUploader) Upload(ctx context.Context, data []byte, name, _ string) (UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return UploadResult{}, &UploadError{Code: CodeUnknown, Message: msgLocalWrite, Err: err}
	}
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return UploadResult{}, &UploadError{Code: CodeConfig, Message: msgLocalWrite, Err: errors.New("empty file name")}
	}
	path := filepath.Join(u.dir, base)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return UploadResult{}, localError(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return UploadResult{}, localError(err)
	}
	link := (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
	return UploadResult{ObjectID: path, Name: base, ViewLink: link}, nil
}

func localError(err error) *UploadError {
	if errors.Is(err, os.ErrPermission) {
		return &UploadError{Code: CodePermission, Message: msgLocalWrite, Err: err}
	}
	return &UploadError{Code: CodeUnknown, Message: msgLocalWrite, Err: err}
}
