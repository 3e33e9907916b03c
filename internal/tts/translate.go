// Package tts turns an English analysis summary into Hindi speech: it
// translates the text, then synthesizes an MP3 via the Google TTS
// endpoint.
package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// translateURL is the unofficial Google Translate endpoint. Good enough
// for short summaries; no API key required.
const translateURL = "https://translate.googleapis.com/translate_a/single"

// looksHindi reports whether text already carries enough Devanagari to
// skip translation.
func looksHindi(text string) bool {
	count := 0
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			count++
			if count >= 10 {
				return true
			}
		}
	}
	return false
}

// Translator translates English text to Hindi.
type Translator struct {
	baseURL string
	client  *http.Client
}

// NewTranslator creates a Translator with a sane timeout.
func NewTranslator() *Translator {
	return &Translator{
		baseURL: translateURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ToHindi translates text to Hindi. Text that already looks like Hindi
// is returned unchanged. Translation happens sentence by sentence to
// keep each request small.
func (t *Translator) ToHindi(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if looksHindi(text) {
		return text, nil
	}

	var out []string
	for _, sentence := range splitSentences(text) {
		translated, err := t.translate(ctx, sentence)
		if err != nil {
			return "", fmt.Errorf("translate to Hindi: %w", err)
		}
		out = append(out, translated)
	}
	return strings.Join(out, " "), nil
}

// translate sends one chunk through the translate endpoint.
func (t *Translator) translate(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "en")
	q.Set("tl", "hi")
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translate endpoint returned %s: %s", resp.Status, body)
	}

	// The response is a nested JSON array; the translated segments sit
	// at [0][i][0].
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decode translate segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		b.WriteString(piece)
	}
	return strings.TrimSpace(b.String()), nil
}

// splitSentences breaks text at sentence boundaries, keeping the
// terminator with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
