package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"loan-predictor/service"
)

type PredictHandler struct {
	service      *service.PredictionService
	maxBodyBytes int64
	logger       *zap.Logger
}

func NewPredictHandler(
	service *service.PredictionService,
	maxBodyBytes int64,
	logger *zap.Logger,
) *PredictHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictHandler{
		service:      service,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	input, err := decodePredictRequest(body)
	if err != nil {
		var verr ValidationError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: verr})
		case errors.As(err, &maxErr):
			writeDetail(w, http.StatusRequestEntityTooLarge, "Request body too large")
		default:
			h.logger.Warn("failed to read request body", zap.Error(err))
			writeDetail(w, http.StatusBadRequest, "invalid request body")
		}
		return
	}

	result, err := h.service.Predict(input)
	if errors.Is(err, service.ErrModelsNotLoaded) {
		writeDetail(w, http.StatusInternalServerError, "Models not loaded")
		return
	}
	if err != nil {
		h.logger.Error("prediction failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err))
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
