package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pylimer/polymer-predictor/internal/config"
	"github.com/pylimer/polymer-predictor/internal/experiments"
	"github.com/pylimer/polymer-predictor/internal/models"
	"github.com/pylimer/polymer-predictor/internal/predictor"
	"github.com/pylimer/polymer-predictor/internal/presets"
	"github.com/pylimer/polymer-predictor/internal/store"
)

func newTestRouter(t *testing.T, predictions *store.Store) *mux.Router {
	t.Helper()
	presetTable, err := presets.Load()
	if err != nil {
		t.Fatalf("Failed to load presets: %v", err)
	}
	experimentStore, err := experiments.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create experiment store: %v", err)
	}
	cfg := config.Config{Port: 8080, Version: "test"}
	handler := NewHandler(presetTable, predictions, experimentStore, predictor.NewNNPredictor(t.TempDir()), cfg)

	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func validRequest() models.PredictionRequest {
	return models.PredictionRequest{
		PolymerName:             "PDMS",
		StoichiometricImbalance: 1.0,
		CrosslinkConversion:     0.8,
		CrosslinkFunctionality:  4,
		NBifunctionalChains:     10_000_000,
		NBeadsBifunctional:      100,
		NBeadsCrosslink:         1,

		Temperature:                298.15,
		Density:                    0.000965,
		BeadMass:                   0.381,
		MeanSquaredBeadDistance:    0.676,
		PlateauModulus:             0.2,
		EntanglementSamplingCutoff: 2.6,
	}
}

func postJSON(t *testing.T, r *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to encode request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]string
	json.NewDecoder(w.Body).Decode(&response)
	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response["status"])
	}
}

func TestInfoEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/info", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(w.Body).Decode(&response)
	if response["version"] != "test" {
		t.Errorf("Expected version 'test', got '%v'", response["version"])
	}
}

func TestPolymerParametersEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/polymer-parameters", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]presets.Preset
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if _, ok := response["PDMS"]; !ok {
		t.Error("Expected PDMS in the preset table")
	}
}

func TestPredictMMTEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/predict/mmt", validRequest())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response models.PredictionResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.GPhantom <= 0 {
		t.Errorf("Expected positive phantom modulus, got %g", response.GPhantom)
	}
	if response.GEq <= response.GPhantom {
		t.Errorf("Expected total %g above phantom %g", response.GEq, response.GPhantom)
	}
	if response.WBackboneMMT == nil {
		t.Error("Expected the direct backbone fraction on the theory path")
	}
	if response.Model != "" {
		t.Errorf("Expected no model name on the theory path, got %q", response.Model)
	}
}

func TestPredictMMTRejectsInvalidInput(t *testing.T) {
	r := newTestRouter(t, nil)

	req := validRequest()
	req.CrosslinkConversion = 1.5
	w := postJSON(t, r, "/predict/mmt", req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestPredictMMTRejectsBelowGelPoint(t *testing.T) {
	r := newTestRouter(t, nil)

	req := validRequest()
	req.CrosslinkConversion = 0.3
	w := postJSON(t, r, "/predict/mmt", req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 below the gel point, got %d", w.Code)
	}
}

func TestPredictMMTRejectsBadBody(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest("POST", "/predict/mmt", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestPredictNNMissingModels(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/predict/nn", validRequest())
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500 with no model files, got %d", w.Code)
	}
}

func TestPredictionsPersisted(t *testing.T) {
	predictions, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer predictions.Close()

	r := newTestRouter(t, predictions)

	w := postJSON(t, r, "/predict/mmt", validRequest())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response models.PredictionResponse
	json.NewDecoder(w.Body).Decode(&response)
	if response.ID == "" {
		t.Fatal("Expected a persisted prediction id")
	}

	req := httptest.NewRequest("GET", "/predictions/"+response.ID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 fetching the prediction, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/predictions", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 listing predictions, got %d", rec.Code)
	}

	var records []store.Record
	if err := json.NewDecoder(rec.Body).Decode(&records); err != nil {
		t.Fatalf("Failed to decode prediction list: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 persisted prediction, got %d", len(records))
	}
}

func TestListPredictionsWithoutStore(t *testing.T) {
	r := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/predictions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestExperimentLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)

	req := validRequest()
	body := map[string]interface{}{
		"title":       "PDMS batch 3",
		"description": "reference network",
		"request":     req,
	}
	w := postJSON(t, r, "/experiments", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created experiments.Experiment
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode experiment: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Expected a generated experiment id")
	}
	if created.Request == nil || created.Request.PolymerName != "PDMS" {
		t.Error("Expected the prediction request stored with the experiment")
	}

	getReq := httptest.NewRequest("GET", "/experiments/"+created.ID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, getReq)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 fetching the experiment, got %d", rec.Code)
	}

	delReq := httptest.NewRequest("DELETE", "/experiments/"+created.ID, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, delReq)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 deleting the experiment, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, getReq)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", rec.Code)
	}
}

func TestCreateExperimentWithoutRequest(t *testing.T) {
	r := newTestRouter(t, nil)

	w := postJSON(t, r, "/experiments", map[string]string{"title": "empty"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestGetPredictionMissing(t *testing.T) {
	predictions, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer predictions.Close()

	r := newTestRouter(t, predictions)

	req := httptest.NewRequest("GET", "/predictions/no-such-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
