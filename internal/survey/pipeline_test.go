package survey

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/ayberkarici/fucom/internal/fucom"
	"github.com/ayberkarici/fucom/internal/sheet"
	"github.com/ayberkarici/fucom/internal/storage"
)

func newTestSubmitter(up storage.Uploader, cfg SubmitterConfig) *Submitter {
	if cfg.Catalog.Main == nil {
		cfg.Catalog = fucom.DefaultCatalog()
	}
	s := NewSubmitter(cfg, up, NewMemoryRecordStore(), zerolog.Nop())
	s.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSubmitUploadsSpreadsheet(t *testing.T) {
	up := &fakeUploader{}
	s := newTestSubmitter(up, SubmitterConfig{})
	resp := completeResponse()

	res, err := s.Submit(context.Background(), &resp)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.FileName != "FUCOM-AyşeCan.xlsx" {
		t.Fatalf("unexpected file name %q", res.FileName)
	}
	if res.ObjectID != "obj-FUCOM-AyşeCan.xlsx" || res.Token == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if up.count() != 1 {
		t.Fatalf("expected 1 upload, got %d", up.count())
	}
	if up.uploads[0].contentType != sheet.ContentType {
		t.Fatalf("unexpected content type %q", up.uploads[0].contentType)
	}

	f, err := excelize.OpenReader(bytes.NewReader(up.uploads[0].data))
	if err != nil {
		t.Fatalf("open uploaded document: %v", err)
	}
	defer f.Close()
	name, _ := f.GetCellValue(sheet.SheetName, "B2")
	if name != "Ayşe Can" {
		t.Fatalf("expected name in B2, got %q", name)
	}

	rec, ok, err := s.Records().Get(context.Background(), res.Token)
	if err != nil || !ok {
		t.Fatalf("expected record, ok=%v err=%v", ok, err)
	}
	if rec.Status != StatusUploaded || rec.FileName != res.FileName {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestSubmitRejectsBlankName(t *testing.T) {
	up := &fakeUploader{}
	s := newTestSubmitter(up, SubmitterConfig{})
	resp := completeResponse()
	resp.Demographics.FullName = "   "

	_, err := s.Submit(context.Background(), &resp)
	var serr *SubmitError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmitError, got %v", err)
	}
	if serr.Kind != KindValidation || serr.Status() != 400 {
		t.Fatalf("unexpected error %+v", serr)
	}
	if serr.Message != fucom.MsgFullNameRequired {
		t.Fatalf("unexpected message %q", serr.Message)
	}
	if up.count() != 0 {
		t.Fatal("nothing must be uploaded for a rejected submission")
	}
}

func TestSubmitDefaultAcceptsPartialResponse(t *testing.T) {
	up := &fakeUploader{}
	s := newTestSubmitter(up, SubmitterConfig{})
	resp := fucom.Response{Demographics: fucom.Demographics{FullName: "Ali"}}

	if _, err := s.Submit(context.Background(), &resp); err != nil {
		t.Fatalf("expected only the name check by default, got %v", err)
	}
}

func TestSubmitStrictRequiresCompleteResponse(t *testing.T) {
	up := &fakeUploader{}
	s := newTestSubmitter(up, SubmitterConfig{Strict: true})
	resp := completeResponse()
	resp.MainComparisons[0].Value = ""

	_, err := s.Submit(context.Background(), &resp)
	var serr *SubmitError
	if !errors.As(err, &serr) || serr.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *fucom.ValidationError
	if !errors.As(err, &verr) || verr.Field != "comparisons.main[0]" {
		t.Fatalf("expected field comparisons.main[0], got %v", err)
	}
}

func TestSubmitUploadFailureIsRecorded(t *testing.T) {
	up := &fakeUploader{err: &storage.UploadError{Code: storage.CodePermission, Message: "erişim izni yok"}}
	s := newTestSubmitter(up, SubmitterConfig{})
	resp := completeResponse()

	_, err := s.Submit(context.Background(), &resp)
	var serr *SubmitError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SubmitError, got %v", err)
	}
	if serr.Kind != KindUpload || serr.Code != "permission" || serr.Status() != 500 {
		t.Fatalf("unexpected error %+v", serr)
	}
	if serr.Message != "erişim izni yok" {
		t.Fatalf("upload message must reach the caller, got %q", serr.Message)
	}

	recs, err := s.Records().Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Status != StatusFailed || recs[0].ErrorCode != "permission" {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestSubmitUnclassifiedUploadFailure(t *testing.T) {
	up := &fakeUploader{err: errors.New("boom")}
	s := newTestSubmitter(up, SubmitterConfig{})
	resp := completeResponse()

	_, err := s.Submit(context.Background(), &resp)
	var serr *SubmitError
	if !errors.As(err, &serr) || serr.Kind != KindUpload || serr.Code != "unknown" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSubmitAppendTimestamp(t *testing.T) {
	up := &fakeUploader{}
	s := newTestSubmitter(up, SubmitterConfig{AppendTimestamp: true})
	resp := completeResponse()

	res, err := s.Submit(context.Background(), &resp)
	if err != nil {
		t.Fatal(err)
	}
	if res.FileName != "FUCOM-AyşeCan-20261017120000.xlsx" {
		t.Fatalf("unexpected file name %q", res.FileName)
	}
}

type slowUploader struct{}

func (slowUploader) Upload(ctx context.Context, _ []byte, _, _ string) (storage.UploadResult, error) {
	<-ctx.Done()
	return storage.UploadResult{}, ctx.Err()
}

func TestSubmitUploadTimeout(t *testing.T) {
	s := newTestSubmitter(slowUploader{}, SubmitterConfig{UploadTimeout: 20 * time.Millisecond})
	resp := completeResponse()

	_, err := s.Submit(context.Background(), &resp)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestConcurrentIdenticalSubmissionsAreIndependent(t *testing.T) {
	up := &fakeUploader{}
	s := newTestSubmitter(up, SubmitterConfig{})

	const n = 8
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := completeResponse()
			res, err := s.Submit(context.Background(), &resp)
			if err != nil {
				t.Errorf("submit %d: %v", i, err)
				return
			}
			tokens[i] = res.Token
		}(i)
	}
	wg.Wait()

	if up.count() != n {
		t.Fatalf("expected %d uploads, got %d", n, up.count())
	}
	seen := map[string]bool{}
	for _, tok := range tokens {
		if seen[tok] {
			t.Fatalf("duplicate token %s", tok)
		}
		seen[tok] = true
	}
}
