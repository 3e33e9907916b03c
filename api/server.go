// Package api provides the HTTP REST API server for NewsBrief.
//
// It exposes endpoints for company news analysis, Hindi audio
// summaries, the sample company list, and WebSocket streaming, plus the
// embedded dashboard UI.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/newsbriefhq/newsbrief/internal/config"
	"github.com/newsbriefhq/newsbrief/internal/datasource"
	"github.com/newsbriefhq/newsbrief/internal/pipeline"
	"github.com/newsbriefhq/newsbrief/internal/tts"
	"github.com/newsbriefhq/newsbrief/web"
)

// Article count limits per endpoint.
const (
	defaultNewsArticles  = 10
	maxNewsArticles      = 20
	defaultAudioArticles = 5
	maxAudioArticles     = 10
)

// sampleCompanies is the list offered to dashboard users as starting
// points. Any company name works; these are just well-covered ones.
var sampleCompanies = []string{
	"Tesla",
	"Apple",
	"Microsoft",
	"Google",
	"Amazon",
	"Meta",
	"Netflix",
	"Nvidia",
	"Reliance Industries",
	"Tata Motors",
}

// SampleCompanies returns a copy of the suggested company list.
func SampleCompanies() []string {
	out := make([]string, len(sampleCompanies))
	copy(out, sampleCompanies)
	return out
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	pipe     *pipeline.Pipeline
	audioDir string
	wsHub    *WSHub
	serveUI  bool // when true, serve the embedded web UI at /
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	disk, err := datasource.NewDiskCache(cfg.Cache.Dir, time.Duration(cfg.Cache.TTL)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("cache setup failed: %w", err)
	}

	opts := []datasource.FetcherOption{datasource.WithDiskCache(disk)}
	if cfg.News.ExtractContent {
		opts = append(opts, datasource.WithExtractor(
			datasource.NewExtractor(time.Duration(cfg.News.ExtractTimeout)*time.Second)))
	}
	fetcher := datasource.NewFetcher(cfg.News.NewsAPIKey, opts...)

	engine, err := tts.NewEngine(cfg.TTS.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("TTS setup failed: %w", err)
	}

	srv := &Server{
		cfg:      cfg,
		pipe:     pipeline.New(fetcher, engine),
		audioDir: engine.OutputDir(),
		wsHub:    NewWSHub(),
		serveUI:  true, // serve embedded web UI by default
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// SetServeUI controls whether the embedded web UI is served.
// Must be called before ListenAndServe.
func (s *Server) SetServeUI(enabled bool) {
	s.serveUI = enabled
	s.router = s.buildRouter()
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// News analysis
		r.Get("/news/{company}", s.handleNews)

		// Audio summary
		r.Get("/audio/{company}", s.handleAudio)

		// Sample companies
		r.Get("/companies", s.handleCompanies)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleUpdateConfig)
		r.Get("/config/keys", s.handleConfigKeys)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	// Generated audio files
	r.Get("/audio/files/*", s.handleAudioFile)

	// Serve embedded web UI (SPA with fallback to index.html)
	if s.serveUI {
		s.mountSPA(r, web.DistFS())
	}

	return r
}

// mountSPA serves the embedded static export as a single-page app.
// Static assets are served directly with caching; all other paths fall
// back to index.html for client-side routing.
func (s *Server) mountSPA(r chi.Router, distFS fs.FS) {
	fileServer := http.FileServerFS(distFS)

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		rPath := strings.TrimPrefix(r.URL.Path, "/")
		if rPath == "" {
			rPath = "index.html"
		}

		// Try to open the requested file from the embedded FS
		f, err := distFS.Open(rPath)
		if err != nil {
			// File not found — serve index.html for SPA client-side routing
			serveIndexHTML(w, r, distFS)
			return
		}
		f.Close()

		// Set cache headers for immutable assets
		if strings.HasPrefix(rPath, "_next/static/") || strings.HasPrefix(rPath, "assets/") {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else if rPath == "index.html" || strings.HasSuffix(rPath, ".html") {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}

		fileServer.ServeHTTP(w, r)
	})
}

// serveIndexHTML reads and serves the embedded index.html for SPA fallback.
func serveIndexHTML(w http.ResponseWriter, r *http.Request, distFS fs.FS) {
	data, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	if company == "" {
		writeError(w, http.StatusBadRequest, "company is required")
		return
	}

	maxArticles := clampArticles(r.URL.Query().Get("max_articles"), defaultNewsArticles, maxNewsArticles)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	report, err := s.pipe.CompanyNews(ctx, company, maxArticles)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoArticles) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no articles found for %s", company))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Broadcast to WebSocket clients
	s.wsHub.Broadcast(WSMessage{
		Type: "report_complete",
		Data: map[string]interface{}{
			"company":  company,
			"articles": len(report.Articles),
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    report,
	})
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")
	if company == "" {
		writeError(w, http.StatusBadRequest, "company is required")
		return
	}

	maxArticles := clampArticles(r.URL.Query().Get("max_articles"), defaultAudioArticles, maxAudioArticles)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Minute)
	defer cancel()

	report, err := s.pipe.CompanyAudio(ctx, company, maxArticles)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoArticles) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no articles found for %s", company))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "audio_complete",
		Data: map[string]interface{}{
			"company": company,
			"path":    report.AudioPath,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    report,
	})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    sampleCompanies,
	})
}

func (s *Server) handleConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckAPIKeys(s.cfg),
	})
}

// handleAudioFile serves generated MP3s. File names are sanitized at
// generation time; the path is still confined to the audio dir here.
func (s *Server) handleAudioFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" || strings.Contains(name, "..") || strings.ContainsRune(name, '/') {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	http.ServeFile(w, r, filepath.Join(s.audioDir, name))
}

// clampArticles parses a max_articles query value and clamps it to
// [1, max], falling back to def when absent or unparsable.
func clampArticles(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
