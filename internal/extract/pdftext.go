package extract

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// TextLayer pulls the embedded text layer out of a PDF, returning ok=false
// when the document has no usable one (scanned statements, exotic font
// encodings). The library is known to panic on some malformed documents, so
// the whole extraction is wrapped in a recover.
func TextLayer(data []byte) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	text = sb.String()
	if !isReadableText(text) {
		return "", false
	}
	return text, true
}

// isReadableText guards against garbage from identity-encoded fonts: the
// text must be long enough, mostly plain ASCII, and contain at least one
// word that shows up in virtually every bank statement.
func isReadableText(text string) bool {
	if len(text) <= 50 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	lower := strings.ToLower(text)
	for _, word := range []string{
		"bank", "account", "balance", "date", "statement", "transaction",
		"amount", "credit", "debit", "payment", "total",
	} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of basic readable characters to total
// characters. Strict ASCII on purpose: unicode.IsLetter matches the accented
// garbage produced by identity-encoded fonts.
func textQuality(text string) float64 {
	total, readable := 0, 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(".,-/:;()'\"R£$€%&@#!?+=*", r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}
