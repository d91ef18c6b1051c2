package survey

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ayberkarici/fucom/internal/fucom"
	"github.com/ayberkarici/fucom/internal/storage"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindDocument   Kind = "document"
	KindUpload     Kind = "upload"
)

const (
	msgDocumentFailed = "Excel dosyası oluşturulamadı."
	msgUnknownFailure = "Bilinmeyen bir hata oluştu."
	msgSubmitted      = "Form başarıyla gönderildi ve Google Drive'a yüklendi."
	msgIncomplete     = "Lütfen tüm ikili önem değerlendirmelerini tamamlayınız."
)

// SubmitError reports which stage of a submission failed. Message is
// user-facing; Code carries the upload classification when Kind is upload.
type SubmitError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmitError) Unwrap() error { return e.Err }

func (e *SubmitError) Status() int {
	return statusForKind(e.Kind)
}

func statusForKind(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func validationError(err error) *SubmitError {
	msg := err.Error()
	var verr *fucom.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message
	}
	return &SubmitError{Kind: KindValidation, Message: msg, Err: err}
}

func documentError(err error) *SubmitError {
	return &SubmitError{Kind: KindDocument, Message: msgDocumentFailed, Err: err}
}

func uploadError(err error) *SubmitError {
	var uerr *storage.UploadError
	if errors.As(err, &uerr) {
		return &SubmitError{Kind: KindUpload, Code: string(uerr.Code), Message: uerr.Message, Err: err}
	}
	return &SubmitError{Kind: KindUpload, Code: string(storage.CodeUnknown), Message: msgUnknownFailure, Err: err}
}
