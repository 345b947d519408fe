package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/pylimer/polymer-predictor/internal/api"
	"github.com/pylimer/polymer-predictor/internal/config"
	"github.com/pylimer/polymer-predictor/internal/experiments"
	"github.com/pylimer/polymer-predictor/internal/predictor"
	"github.com/pylimer/polymer-predictor/internal/presets"
	"github.com/pylimer/polymer-predictor/internal/store"
)

//go:embed static/*
var staticFS embed.FS

// Server holds all the components for the web application
type Server struct {
	cfg         config.Config
	httpServer  *http.Server
	router      *mux.Router
	presets     map[string]presets.Preset
	predictions *store.Store
	experiments *experiments.Store
	nn          *predictor.NNPredictor
}

// New creates a new Server with all components initialized
func New(cfg config.Config) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
		nn:     predictor.NewNNPredictor(cfg.ModelsDir),
	}

	// Load polymer presets; a table in the data dir overrides the embedded one
	presetTable, err := loadPresets(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load polymer presets: %w", err)
	}
	s.presets = presetTable

	// Initialize the prediction store; the API degrades gracefully without it
	predictions, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Printf("Warning: prediction store not available: %v", err)
	} else {
		s.predictions = predictions
	}

	// Initialize the experiment store
	experimentStore, err := experiments.NewStore(cfg.DataDir)
	if err != nil {
		log.Printf("Warning: experiment store not available: %v", err)
	} else {
		s.experiments = experimentStore
	}

	// Set up routes
	s.setupRoutes()

	return s, nil
}

// loadPresets prefers a polymer-presets.json in the data dir over the
// embedded table
func loadPresets(dataDir string) (map[string]presets.Preset, error) {
	override := filepath.Join(dataDir, "polymer-presets.json")
	if _, err := os.Stat(override); err == nil {
		table, err := presets.LoadFile(override)
		if err != nil {
			log.Printf("Warning: could not load %s, using embedded presets: %v", override, err)
		} else {
			log.Printf("Using preset table: %s", override)
			return table, nil
		}
	}
	return presets.Load()
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// API routes
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiHandler := api.NewHandler(s.presets, s.predictions, s.experiments, s.nn, s.cfg)
	apiHandler.RegisterRoutes(apiRouter)

	// Static frontend files (embedded)
	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Printf("Warning: Could not load embedded static files: %v", err)
		return
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticContent)))
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server listening on http://localhost:%d", s.cfg.Port)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.predictions != nil {
		s.predictions.Close()
	}

	return s.httpServer.Shutdown(ctx)
}
