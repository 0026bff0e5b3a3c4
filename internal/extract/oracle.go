// Package extract is the boundary to the external document extraction
// service. PDF and image uploads are delegated whole to a vision model; the
// response is untrusted text that gets repaired, validated, and normalized
// into candidate transactions.
package extract

import "context"

// Oracle turns raw document bytes into a best-effort textual extraction
// result. The returned string is a raw model response and may be malformed;
// callers must run it through ParseCandidates.
type Oracle interface {
	Extract(ctx context.Context, data []byte, mediaType string) (string, error)
}

// extractionPrompt instructs the model to return a bare JSON array. The
// response is still treated as untrusted: models wrap output in code fences
// and truncate long arrays regardless of instructions.
const extractionPrompt = `You are given a bank statement or receipt. Extract every financial
transaction you can find and return ONLY a JSON array, no prose, in this form:

[{"date":"YYYY-MM-DD","description":"...","amount":123.45,"type":"debit"}]

Rules:
- "type" is "debit" for money leaving the account, "credit" for money coming in.
- "amount" is a positive number.
- Use the transaction date, not the posting date, when both are shown.
- If you are unsure about a value, omit that transaction entirely.`
