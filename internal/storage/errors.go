package storage

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

type Code string

const (
	CodeAuth          Code = "auth"
	CodeConfig        Code = "config"
	CodePermission    Code = "permission"
	CodeQuota         Code = "quota"
	CodeAPINotEnabled Code = "api_not_enabled"
	CodeNotFound      Code = "not_found"
	CodeUnknown       Code = "unknown"
)

// UploadError is a classified upload failure. Message is user-facing.
type UploadError struct {
	Code    Code
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("upload %s: %s", e.Code, e.Message)
}

func (e *UploadError) Unwrap() error { return e.Err }

const (
	msgMissingCredentials  = "Google kimlik bilgileri eksik. GOOGLE_CLIENT_EMAIL ve GOOGLE_PRIVATE_KEY ortam değişkenlerini ayarlayın."
	msgMissingFolder       = "Google Drive klasör ID'si eksik. DRIVE_FOLDER_ID ortam değişkenini ayarlayın."
	msgAuthFailed          = "Google kimlik doğrulaması başarısız. Service account bilgilerini kontrol edin."
	msgAPINotEnabled       = "Google Drive API etkinleştirilmemiş. Lütfen Google Cloud Console'dan Drive API'yi etkinleştirin."
	msgFolderNotFound      = "Google Drive klasörü bulunamadı. Klasör ID'sini kontrol edin."
	msgPermission          = "Google Drive klasörüne erişim izni yok. Service account'u klasöre 'Editor' olarak ekleyin."
	msgQuotaExceeded       = "Depolama kotası aşıldı. Klasörü service account ile paylaşın."
	msgServiceAccountQuota = "Service Account depolama kotası hatası. Lütfen Google Drive klasörünü service account email'i ile 'Editor' olarak paylaşın"
	msgLocalWrite          = "Dosya kaydedilemedi."
)

// Classify maps a Drive client error onto an *UploadError. clientEmail is
// quoted in the service account quota message so the operator knows which
// account to share the folder with.
func Classify(err error, clientEmail string) *UploadError {
	if err == nil {
		return nil
	}
	var ue *UploadError
	if errors.As(err, &ue) {
		return ue
	}

	text := err.Error()
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		text = gerr.Message
	}
	if strings.Contains(text, "storage quota") || strings.Contains(text, "Service Accounts") {
		msg := msgServiceAccountQuota
		if clientEmail != "" {
			msg += ": " + clientEmail
		}
		return &UploadError{Code: CodeQuota, Message: msg, Err: err}
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return &UploadError{Code: CodeAuth, Message: msgAuthFailed, Err: err}
	}

	if gerr != nil {
		reason := ""
		if len(gerr.Errors) > 0 {
			reason = gerr.Errors[0].Reason
		}
		switch reason {
		case "accessNotConfigured":
			return &UploadError{Code: CodeAPINotEnabled, Message: msgAPINotEnabled, Err: err}
		case "notFound":
			return &UploadError{Code: CodeNotFound, Message: msgFolderNotFound, Err: err}
		case "forbidden", "insufficientPermissions":
			return &UploadError{Code: CodePermission, Message: msgPermission, Err: err}
		case "storageQuotaExceeded":
			return &UploadError{Code: CodeQuota, Message: msgQuotaExceeded, Err: err}
		}
		if gerr.Code == http.StatusUnauthorized {
			return &UploadError{Code: CodeAuth, Message: msgAuthFailed, Err: err}
		}
	}
	return &UploadError{Code: CodeUnknown, Message: "Google Drive yükleme hatası: " + text, Err: err}
}
