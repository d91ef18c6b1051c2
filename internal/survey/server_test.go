package survey

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ayberkarici/fucom/internal/fucom"
	"github.com/ayberkarici/fucom/internal/storage"
)

func setupServer(t *testing.T) (http.Handler, *fakeUploader, *Submitter) {
	t.Helper()
	up := &fakeUploader{}
	sub := newTestSubmitter(up, SubmitterConfig{})
	webDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html>fucom</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	handler := NewServer(Options{
		Submitter: sub,
		Sessions:  NewSessionStore(fucom.DefaultCatalog(), fucom.RegeneratePreserve, 0),
		Catalog:   fucom.DefaultCatalog(),
		WebDir:    webDir,
		Logger:    zerolog.Nop(),
	})
	return handler, up, sub
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestHandleSubmitValid(t *testing.T) {
	handler, up, _ := setupServer(t)

	rr := do(t, handler, http.MethodPost, "/api/submit", completeResponse())
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	resp := decode(t, rr)
	if resp["success"] != true {
		t.Fatalf("expected success, got %v", resp)
	}
	if resp["fileName"] != "FUCOM-AyşeCan.xlsx" || resp["fileId"] != "obj-FUCOM-AyşeCan.xlsx" {
		t.Fatalf("unexpected body %v", resp)
	}
	if resp["message"] != "Form başarıyla gönderildi ve Google Drive'a yüklendi." {
		t.Fatalf("unexpected message %v", resp["message"])
	}
	if tok, _ := resp["token"].(string); tok == "" {
		t.Fatal("expected token")
	}
	if up.count() != 1 {
		t.Fatalf("expected one upload, got %d", up.count())
	}
}

func TestHandleSubmitMissingName(t *testing.T) {
	handler, up, _ := setupServer(t)
	body := completeResponse()
	body.Demographics.FullName = ""

	rr := do(t, handler, http.MethodPost, "/api/submit", body)
	if rr.Code != 400 {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if decode(t, rr)["error"] != "Ad-Soyad alanı zorunludur." {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if up.count() != 0 {
		t.Fatal("expected no upload")
	}
}

func TestHandleSubmitUploadError(t *testing.T) {
	handler, up, _ := setupServer(t)
	up.err = &storage.UploadError{Code: storage.CodeNotFound, Message: "Google Drive klasörü bulunamadı. Klasör ID'sini kontrol edin."}

	rr := do(t, handler, http.MethodPost, "/api/submit", completeResponse())
	if rr.Code != 500 {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	resp := decode(t, rr)
	if resp["code"] != "not_found" || !strings.Contains(resp["error"].(string), "klasörü bulunamadı") {
		t.Fatalf("unexpected body %v", resp)
	}
}

func TestHandleSubmitInvalidJSON(t *testing.T) {
	handler, _, _ := setupServer(t)
	rr := do(t, handler, http.MethodPost, "/api/submit", "{not json")
	if rr.Code != 400 {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleSubmitMethodNotAllowed(t *testing.T) {
	handler, _, _ := setupServer(t)
	rr := do(t, handler, http.MethodPut, "/api/submit", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestHandleSubmissionAndReceipt(t *testing.T) {
	handler, _, _ := setupServer(t)
	token := decode(t, do(t, handler, http.MethodPost, "/api/submit", completeResponse()))["token"].(string)

	rr := do(t, handler, http.MethodGet, "/api/submissions/"+token, nil)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rec := decode(t, rr)
	if rec["status"] != "uploaded" || rec["fileName"] != "FUCOM-AyşeCan.xlsx" {
		t.Fatalf("unexpected record %v", rec)
	}

	rr = do(t, handler, http.MethodGet, "/receipt/"+token, nil)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), token) {
		t.Fatal("receipt must show the token")
	}

	rr = do(t, handler, http.MethodGet, "/api/submissions", nil)
	subs, _ := decode(t, rr)["submissions"].([]any)
	if len(subs) != 1 {
		t.Fatalf("expected one submission, got %d", len(subs))
	}
}

func TestHandleSubmissionNotFound(t *testing.T) {
	handler, _, _ := setupServer(t)
	if rr := do(t, handler, http.MethodGet, "/api/submissions/nope", nil); rr.Code != 404 {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr := do(t, handler, http.MethodGet, "/receipt/nope", nil); rr.Code != 404 {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr := do(t, handler, http.MethodGet, "/api/submissions?limit=x", nil); rr.Code != 400 {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHandleCatalog(t *testing.T) {
	handler, _, _ := setupServer(t)
	rr := do(t, handler, http.MethodGet, "/api/catalog", nil)
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Groups []struct {
			Group    string            `json:"group"`
			Criteria []fucom.Criterion `json:"criteria"`
		} `json:"groups"`
		Scale []fucom.ScaleLevel `json:"scale"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Groups) != 4 || len(resp.Groups[3].Criteria) != 4 || len(resp.Scale) != 5 {
		t.Fatalf("unexpected catalog %+v", resp)
	}
}

func TestHandleComparisons(t *testing.T) {
	handler, _, _ := setupServer(t)
	c := fucom.DefaultCatalog()
	rr := do(t, handler, http.MethodPost, "/api/comparisons", map[string]any{"ordering": []fucom.Criterion{c.Main[2], c.Main[0], c.Main[1]}})
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Comparisons []fucom.PairwiseComparison `json:"comparisons"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := []fucom.PairwiseComparison{{First: "C3", Second: "C1"}, {First: "C1", Second: "C2"}}
	if len(resp.Comparisons) != 2 || resp.Comparisons[0] != want[0] || resp.Comparisons[1] != want[1] {
		t.Fatalf("unexpected comparisons %+v", resp.Comparisons)
	}

	rr = do(t, handler, http.MethodPost, "/api/comparisons", map[string]any{"ordering": []fucom.Criterion{c.Main[0]}})
	if !strings.Contains(rr.Body.String(), `"comparisons":[]`) {
		t.Fatalf("single criterion must yield an empty list, got %s", rr.Body.String())
	}
}

func TestHandleHealthAndRoot(t *testing.T) {
	handler, _, _ := setupServer(t)
	if rr := do(t, handler, http.MethodGet, "/healthz", nil); rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr := do(t, handler, http.MethodGet, "/", nil)
	if rr.Code != 200 || !strings.Contains(rr.Body.String(), "fucom") {
		t.Fatalf("expected index, got %d %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("expected no-cache, got %q", got)
	}
	if rr := do(t, handler, http.MethodGet, "/missing.js", nil); rr.Code != 404 {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHandleRootServesOnlyFiles(t *testing.T) {
	webDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(webDir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(webDir, "assets", "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	handler := NewServer(Options{
		Submitter: newTestSubmitter(&fakeUploader{}, SubmitterConfig{}),
		Catalog:   fucom.DefaultCatalog(),
		WebDir:    webDir,
		Logger:    zerolog.Nop(),
	})
	if rr := do(t, handler, http.MethodGet, "/assets/app.js", nil); rr.Code != 200 || rr.Body.String() != "console.log(1)" {
		t.Fatalf("expected asset, got %d %s", rr.Code, rr.Body.String())
	}
	if rr := do(t, handler, http.MethodGet, "/assets", nil); rr.Code != 404 {
		t.Fatalf("directory: expected 404, got %d", rr.Code)
	}
	if rr := do(t, handler, http.MethodGet, "/", nil); rr.Code != 404 {
		t.Fatalf("no index: expected 404, got %d", rr.Code)
	}

	bare := NewServer(Options{Submitter: newTestSubmitter(&fakeUploader{}, SubmitterConfig{}), Catalog: fucom.DefaultCatalog(), Logger: zerolog.Nop()})
	if rr := do(t, bare, http.MethodGet, "/", nil); rr.Code != 404 {
		t.Fatalf("no web dir: expected 404, got %d", rr.Code)
	}
}
