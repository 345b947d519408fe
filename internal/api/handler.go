package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pylimer/polymer-predictor/internal/config"
	"github.com/pylimer/polymer-predictor/internal/experiments"
	"github.com/pylimer/polymer-predictor/internal/mmt"
	"github.com/pylimer/polymer-predictor/internal/models"
	"github.com/pylimer/polymer-predictor/internal/predictor"
	"github.com/pylimer/polymer-predictor/internal/presets"
	"github.com/pylimer/polymer-predictor/internal/quantity"
	"github.com/pylimer/polymer-predictor/internal/store"
)

// Handler provides the HTTP API endpoints
type Handler struct {
	presets     map[string]presets.Preset
	predictions *store.Store
	experiments *experiments.Store
	nn          *predictor.NNPredictor
	cfg         config.Config
}

// NewHandler creates a new API handler
func NewHandler(
	presetTable map[string]presets.Preset,
	predictions *store.Store,
	experimentStore *experiments.Store,
	nn *predictor.NNPredictor,
	cfg config.Config,
) *Handler {
	return &Handler{
		presets:     presetTable,
		predictions: predictions,
		experiments: experimentStore,
		nn:          nn,
		cfg:         cfg,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Prediction form support
	r.HandleFunc("/polymer-parameters", h.handlePolymerParameters).Methods("GET")

	// Prediction endpoints
	r.HandleFunc("/predict/mmt", h.handlePredictMMT).Methods("POST")
	r.HandleFunc("/predict/nn", h.handlePredictNN).Methods("POST")

	// Persisted predictions
	r.HandleFunc("/predictions", h.handleListPredictions).Methods("GET")
	r.HandleFunc("/predictions/{id}", h.handleGetPrediction).Methods("GET")

	// Saved experiments
	if h.experiments != nil {
		r.HandleFunc("/experiments", h.handleListExperiments).Methods("GET")
		r.HandleFunc("/experiments", h.handleCreateExperiment).Methods("POST")
		r.HandleFunc("/experiments/{id}", h.handleGetExperiment).Methods("GET")
		r.HandleFunc("/experiments/{id}", h.handleUpdateExperiment).Methods("PUT")
		r.HandleFunc("/experiments/{id}", h.handleDeleteExperiment).Methods("DELETE")
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"version":      h.cfg.Version,
		"presets":      len(h.presets),
		"store_loaded": h.predictions != nil,
	}
	respondJSON(w, http.StatusOK, info)
}

// handlePolymerParameters returns the polymer preset table for the form
func (h *Handler) handlePolymerParameters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.presets)
}

// handlePredictMMT runs the closed-form Miller-Macosko prediction
func (h *Handler) handlePredictMMT(w http.ResponseWriter, r *http.Request) {
	req, input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	result, err := predictor.PredictMMT(input)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	h.respondResult(w, "mmt", req, result)
}

// handlePredictNN runs the trained-model prediction
func (h *Handler) handlePredictNN(w http.ResponseWriter, r *http.Request) {
	req, input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	result, err := h.nn.Predict(r.Context(), input)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	h.respondResult(w, "nn", req, result)
}

// handleListPredictions returns the most recent persisted predictions
func (h *Handler) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	if h.predictions == nil {
		respondJSON(w, http.StatusOK, []struct{}{})
		return
	}
	records, err := h.predictions.List(50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// handleGetPrediction returns one persisted prediction by id
func (h *Handler) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	if h.predictions == nil {
		respondError(w, http.StatusNotFound, "prediction store not available")
		return
	}
	record, err := h.predictions.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// handleListExperiments returns all saved experiments
func (h *Handler) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	list, err := h.experiments.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []*experiments.Experiment{}
	}
	respondJSON(w, http.StatusOK, list)
}

// handleCreateExperiment saves a new experiment
func (h *Handler) handleCreateExperiment(w http.ResponseWriter, r *http.Request) {
	var experiment experiments.Experiment
	if err := json.NewDecoder(r.Body).Decode(&experiment); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.experiments.Create(&experiment)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// handleGetExperiment returns one experiment by id
func (h *Handler) handleGetExperiment(w http.ResponseWriter, r *http.Request) {
	experiment, err := h.experiments.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, experiment)
}

// handleUpdateExperiment applies partial updates to an experiment
func (h *Handler) handleUpdateExperiment(w http.ResponseWriter, r *http.Request) {
	var updates experiments.Experiment
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.experiments.Update(mux.Vars(r)["id"], &updates)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// handleDeleteExperiment removes an experiment
func (h *Handler) handleDeleteExperiment(w http.ResponseWriter, r *http.Request) {
	if err := h.experiments.Delete(mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// decodeInput parses and validates the prediction request body
func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (*models.PredictionRequest, predictor.Input, bool) {
	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, predictor.Input{}, false
	}

	input := toInput(&req)
	if err := input.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, predictor.Input{}, false
	}
	return &req, input, true
}

// respondResult persists the prediction when possible and writes the response
func (h *Handler) respondResult(w http.ResponseWriter, kind string, req *models.PredictionRequest, result *predictor.Result) {
	resp, err := toResponse(result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.predictions != nil {
		id, err := h.predictions.Save(kind, req, resp)
		if err != nil {
			log.Printf("Warning: could not persist %s prediction: %v", kind, err)
		} else {
			resp.ID = id
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// toInput converts the request DTO into a prediction input with units attached
func toInput(req *models.PredictionRequest) predictor.Input {
	return predictor.Input{
		PolymerName: req.PolymerName,

		StoichiometricImbalance: req.StoichiometricImbalance,
		CrosslinkConversion:     req.CrosslinkConversion,
		CrosslinkFunctionality:  req.CrosslinkFunctionality,

		ExtractSolventBeforeMeasurement: req.ExtractSolventBeforeMeasurement,
		DisablePrimaryLoops:             req.DisablePrimaryLoops,
		DisableSecondaryLoops:           req.DisableSecondaryLoops,
		FunctionalizeDiscrete:           req.FunctionalizeDiscrete,

		ZeroFunctionalChains: req.NZeroFunctionalChains,
		MonofunctionalChains: req.NMonofunctionalChains,
		BifunctionalChains:   req.NBifunctionalChains,
		BeadsZeroFunctional:  req.NBeadsZeroFunctional,
		BeadsMonofunctional:  req.NBeadsMonofunctional,
		BeadsBifunctional:    req.NBeadsBifunctional,
		BeadsCrosslink:       req.NBeadsCrosslink,

		Temperature:                quantity.New(req.Temperature, quantity.Kelvin),
		Density:                    quantity.New(req.Density, quantity.KilogramPerCubicCentimetre),
		BeadMass:                   quantity.New(req.BeadMass, quantity.KilogramPerMole),
		MeanSquaredBeadDistance:    quantity.New(req.MeanSquaredBeadDistance, quantity.SquareNanometre),
		PlateauModulus:             quantity.New(req.PlateauModulus, quantity.Megapascal),
		EntanglementSamplingCutoff: quantity.New(req.EntanglementSamplingCutoff, quantity.Nanometre),
	}
}

// toResponse converts a prediction result to the response DTO, moduli in MPa
func toResponse(result *predictor.Result) (*models.PredictionResponse, error) {
	phantom, err := result.Phantom.To(quantity.Megapascal)
	if err != nil {
		return nil, err
	}
	entangled, err := result.Entanglement.To(quantity.Megapascal)
	if err != nil {
		return nil, err
	}

	return &models.PredictionResponse{
		GPhantom:     phantom.Value,
		GEntangled:   entangled.Value,
		GEq:          phantom.Value + entangled.Value,
		WSoluble:     result.Soluble,
		WDangling:    result.Dangling,
		WBackbone:    result.Backbone(),
		WBackboneMMT: result.BackboneDirect,
		Model:        result.Model,
	}, nil
}

// statusFor maps the prediction error taxonomy to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, predictor.ErrInvalidInput),
		errors.Is(err, mmt.ErrInvalidParameter),
		errors.Is(err, mmt.ErrUnsupportedFunctionality):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
