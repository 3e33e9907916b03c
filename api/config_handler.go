// Package api — configuration management endpoints.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/newsbriefhq/newsbrief/internal/config"
)

// configMu serialises writes to the config file.
var configMu sync.Mutex

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config     *config.Config `json:"config"`
	ConfigFile string         `json:"config_file"` // path to the active config file
}

// handleGetConfig returns the current (running) configuration with the
// NewsAPI key masked.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     redactConfig(s.cfg),
			ConfigFile: config.ConfigFilePath(),
		},
	})
}

// handleUpdateConfig merges the provided partial configuration into the running
// config, persists it to disk, and returns the updated config.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	var incoming config.Config
	if err := json.Unmarshal(body, &incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	// Bool fields decode to false whether absent or explicitly false, so
	// presence is detected separately with pointer fields.
	var set struct {
		News struct {
			ExtractContent *bool
		}
	}
	_ = json.Unmarshal(body, &set)

	configMu.Lock()
	defer configMu.Unlock()

	// Merge non-zero values from incoming into running config.
	mergeConfig(s.cfg, &incoming, set.News.ExtractContent)

	// Persist to disk.
	cfgPath := config.ConfigFilePath()
	if err := config.SaveToFile(s.cfg, cfgPath); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save config: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     redactConfig(s.cfg),
			ConfigFile: cfgPath,
		},
	})
}

// redactConfig returns a copy of cfg safe to expose over the API.
func redactConfig(cfg *config.Config) *config.Config {
	redacted := *cfg
	if redacted.News.NewsAPIKey != "" {
		redacted.News.NewsAPIKey = "***"
	}
	return &redacted
}

// mergeConfig copies non-zero/non-empty values from src into dst.
// extractContent is non-nil only when the request body carried the
// field, so omitting it leaves the running value untouched.
func mergeConfig(dst, src *config.Config, extractContent *bool) {
	// News
	if src.News.NewsAPIKey != "" && src.News.NewsAPIKey != "***" {
		dst.News.NewsAPIKey = src.News.NewsAPIKey
	}
	if src.News.MaxArticles != 0 {
		dst.News.MaxArticles = src.News.MaxArticles
	}
	if extractContent != nil {
		dst.News.ExtractContent = *extractContent
	}
	if src.News.ExtractTimeout != 0 {
		dst.News.ExtractTimeout = src.News.ExtractTimeout
	}

	// Cache
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTL != 0 {
		dst.Cache.TTL = src.Cache.TTL
	}

	// TTS
	if src.TTS.OutputDir != "" {
		dst.TTS.OutputDir = src.TTS.OutputDir
	}

	// API
	if src.API.Host != "" {
		dst.API.Host = src.API.Host
	}
	if src.API.Port != 0 {
		dst.API.Port = src.API.Port
	}
	if len(src.API.CORSOrigins) > 0 {
		dst.API.CORSOrigins = src.API.CORSOrigins
	}

	// Web
	if src.Web.URL != "" {
		dst.Web.URL = src.Web.URL
	}

	// Logging
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}
