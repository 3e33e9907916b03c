package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/newsbriefhq/newsbrief/pkg/utils"
)

// speechURL is the Google Translate TTS endpoint.
const speechURL = "https://translate.google.com/translate_tts"

// maxChunkRunes is the per-request text limit of the TTS endpoint.
const maxChunkRunes = 200

// Engine synthesizes Hindi speech and writes MP3 files into a
// directory.
type Engine struct {
	baseURL    string
	outputDir  string
	client     *http.Client
	translator *Translator
}

// NewEngine creates a TTS engine writing into outputDir, creating the
// directory if needed.
func NewEngine(outputDir string) (*Engine, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Engine{
		baseURL:    speechURL,
		outputDir:  outputDir,
		client:     &http.Client{Timeout: 30 * time.Second},
		translator: NewTranslator(),
	}, nil
}

// OutputDir returns the directory generated files are written to.
func (e *Engine) OutputDir() string { return e.outputDir }

// Generate translates text to Hindi, synthesizes it, and writes the
// MP3. It returns the path of the written file, named
// <prefix>_<unix-ts>.mp3 with prefix sanitized for the filesystem.
func (e *Engine) Generate(ctx context.Context, text, prefix string) (string, error) {
	hindi, err := e.translator.ToHindi(ctx, text)
	if err != nil {
		return "", err
	}
	if hindi == "" {
		return "", fmt.Errorf("nothing to synthesize")
	}

	name := fmt.Sprintf("%s_%d.mp3", utils.SafeFileKey(prefix), time.Now().Unix())
	path := filepath.Join(e.outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	defer f.Close()

	// The endpoint caps input length, so long summaries are synthesized
	// in chunks and the MP3 frames concatenated.
	for _, chunk := range chunkText(hindi, maxChunkRunes) {
		if err := e.synthesize(ctx, chunk, f); err != nil {
			os.Remove(path)
			return "", err
		}
	}

	return path, nil
}

// synthesize fetches the audio for one chunk and appends it to w.
func (e *Engine) synthesize(ctx context.Context, text string, w io.Writer) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", "hi")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("TTS request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TTS endpoint returned %s", resp.Status)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}

// chunkText splits text into pieces of at most limit runes, breaking at
// word boundaries where possible.
func chunkText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = append(chunks, string(runes))
			break
		}
		cut := limit
		for cut > 0 && runes[cut] != ' ' {
			cut--
		}
		if cut == 0 {
			cut = limit // no space found, hard cut
		}
		chunks = append(chunks, string(runes[:cut]))
		for cut < len(runes) && runes[cut] == ' ' {
			cut++
		}
		runes = runes[cut:]
	}
	return chunks
}
