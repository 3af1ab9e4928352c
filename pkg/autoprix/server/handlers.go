package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
	"github.com/elannasinada/AutoPrix/pkg/autoprix/predict"
)

const maxFormBytes = 1 << 20

const unavailableMessage = "models could not be loaded, check the server logs"

// GetIndex reports whether predictions can be served, with the form choices.
func (h *httpServer) GetIndex(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, dal.LandingResponse{
			Ready:   false,
			Message: unavailableMessage,
		})
		return
	}
	h.writeJSON(w, http.StatusOK, dal.LandingResponse{
		Ready:      true,
		Makes:      h.catalog.Makes(),
		Conditions: h.catalog.Conditions(),
	})
}

// GetCarModels defines a GET handler listing the models of a make
func (h *httpServer) GetCarModels(w http.ResponseWriter, r *http.Request) {
	makeName := mux.Vars(r)["make"]
	h.writeJSON(w, http.StatusOK, h.catalog.Lookup(makeName))
}

// PostPredict defines a POST handler estimating the price of the submitted car
func (h *httpServer) PostPredict(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, dal.Failure(unavailableMessage))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	// the form page posts multipart FormData; urlencoded bodies are accepted too
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.log.Info("form parsing failed", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, dal.Failure("invalid form: "+err.Error()))
		return
	}

	resp, outcome := h.predictor.Predict(r.Context(), r.PostForm)

	status := http.StatusOK
	switch outcome {
	case predict.OutcomeInvalid:
		h.log.Info("prediction request rejected", zap.String("error", resp.Error))
		status = http.StatusBadRequest
	case predict.OutcomeFailed:
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, resp)
}

// GetHealth reports liveness and whether the models are loaded
func (h *httpServer) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"models": h.predictor != nil,
		"makes":  h.catalog.Len(),
	})
}

func (h *httpServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("response encoding failed", zap.Error(err))
	}
}
