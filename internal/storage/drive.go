package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveConfig holds the service account and target folder. Either
// ClientEmail and PrivateKey or CredentialsFile must be set.
type DriveConfig struct {
	ClientEmail     string
	PrivateKey      string
	CredentialsFile string
	FolderID        string
}

func (c DriveConfig) Validate() error {
	if c.CredentialsFile == "" && (strings.TrimSpace(c.ClientEmail) == "" || strings.TrimSpace(c.PrivateKey) == "") {
		return &UploadError{Code: CodeAuth, Message: msgMissingCredentials}
	}
	if strings.TrimSpace(c.FolderID) == "" {
		return &UploadError{Code: CodeConfig, Message: msgMissingFolder}
	}
	return nil
}

// NormalizePrivateKey turns literal \n escapes, as found in env files, into
// newlines. Keys that already contain newlines are returned unchanged.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

func (c DriveConfig) credentialsJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": c.ClientEmail,
		"private_key":  NormalizePrivateKey(c.PrivateKey),
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

// DriveUploader uploads into one Google Drive folder with a service account.
type DriveUploader struct {
	files       *drive.FilesService
	folderID    string
	clientEmail string
}

// NewDriveUploader validates cfg and builds the Drive client. opts are
// appended after the credential options.
func NewDriveUploader(ctx context.Context, cfg DriveConfig, opts ...option.ClientOption) (*DriveUploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := []option.ClientOption{option.WithScopes(drive.DriveFileScope)}
	if cfg.CredentialsFile != "" {
		base = append(base, option.WithCredentialsFile(cfg.CredentialsFile))
	} else {
		blob, err := cfg.credentialsJSON()
		if err != nil {
			return nil, &UploadError{Code: CodeAuth, Message: msgAuthFailed, Err: err}
		}
		base = append(base, option.WithCredentialsJSON(blob))
	}
	svc, err := drive.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, &UploadError{Code: CodeAuth, Message: msgAuthFailed, Err: err}
	}
	return newDriveUploader(svc, cfg.FolderID, cfg.ClientEmail), nil
}

func newDriveUploader(svc *drive.Service, folderID, clientEmail string) *DriveUploader {
	return &DriveUploader{files: svc.Files, folderID: folderID, clientEmail: clientEmail}
}

// Upload creates name inside the configured folder. Shared drives are
// supported. There is no retry.
func (u *DriveUploader) Upload(ctx context.Context, data []byte, name, contentType string) (UploadResult, error) {
	meta := &drive.File{Name: name, Parents: []string{u.folderID}}
	f, err := u.files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		SupportsAllDrives(true).
		Fields("id", "name", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return UploadResult{}, Classify(err, u.clientEmail)
	}
	res := UploadResult{ObjectID: f.Id, Name: f.Name, ViewLink: f.WebViewLink}
	if res.Name == "" {
		res.Name = name
	}
	return res, nil
}

type FolderInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsFolder bool   `json:"isFolder"`
}

// CheckFolderAccess reads the target folder's metadata with the configured
// account.
func (u *DriveUploader) CheckFolderAccess(ctx context.Context) (FolderInfo, error) {
	f, err := u.files.Get(u.folderID).
		SupportsAllDrives(true).
		Fields("id", "name", "mimeType").
		Context(ctx).
		Do()
	if err != nil {
		return FolderInfo{}, Classify(err, u.clientEmail)
	}
	return FolderInfo{ID: f.Id, Name: f.Name, IsFolder: f.MimeType == folderMimeType}, nil
}
