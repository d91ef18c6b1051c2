package survey

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var receiptMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ReceiptMarkdown summarises a submission record as Markdown.
func ReceiptMarkdown(rec Record) string {
	var b strings.Builder
	b.WriteString("# FUCOM Gönderim Özeti\n\n")
	b.WriteString("| Alan | Değer |\n|---|---|\n")
	row := func(k, v string) {
		if v == "" {
			return
		}
		fmt.Fprintf(&b, "| %s | %s |\n", k, escapeCell(v))
	}
	row("Takip No", rec.Token)
	row("Dosya", rec.FileName)
	row("Durum", statusLabel(rec.Status))
	row("Tarih", rec.CreatedAt.UTC().Format(time.RFC3339))
	row("Dosya ID", rec.ObjectID)
	if rec.Status == StatusFailed {
		row("Hata Kodu", rec.ErrorCode)
		row("Hata", rec.ErrorMessage)
	}
	if rec.ViewLink != "" && strings.HasPrefix(rec.ViewLink, "https://") {
		fmt.Fprintf(&b, "\n[Dosyayı görüntüle](%s)\n", rec.ViewLink)
	}
	return b.String()
}

// RenderReceipt renders the receipt as a standalone HTML page.
func RenderReceipt(rec Record) ([]byte, error) {
	var content bytes.Buffer
	if err := receiptMarkdown.Convert([]byte(ReceiptMarkdown(rec)), &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	var out bytes.Buffer
	out.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	out.WriteString(html.EscapeString(rec.FileName))
	out.WriteString("</title><style>" +
		"body{font-family:system-ui,sans-serif;max-width:720px;margin:2rem auto;color:#1c1917;} " +
		"table{border-collapse:collapse;width:100%;} th,td{border:1px solid #a8a29e;padding:0.35rem 0.5rem;text-align:left;} " +
		"thead th{background:#e0e7ff;} a{color:#1e40af;}" +
		"</style></head><body>")
	out.Write(content.Bytes())
	out.WriteString("</body></html>")
	return out.Bytes(), nil
}

func statusLabel(s RecordStatus) string {
	switch s {
	case StatusUploaded:
		return "Yüklendi"
	case StatusFailed:
		return "Başarısız"
	}
	return string(s)
}

// escapeCell keeps user-derived text from breaking the table or being read
// as Markdown syntax.
func escapeCell(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch r {
		case '\n', '\r':
			b.WriteRune(' ')
			continue
		case '|', '\\', '`', '*', '_', '[', ']', '<', '>', '#', '!':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
