package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"tiktok-relay/models"
	"tiktok-relay/service"
	"tiktok-relay/utils"
)

type TrackHandler struct {
	Service *service.RelayService
}

func NewTrackHandler(svc *service.RelayService) *TrackHandler {
	return &TrackHandler{Service: svc}
}

// TrackEventHandler relays one conversion event to the TikTok Events API.
//
// Replies:
//
//	200 {success:true, status, data}             upstream accepted
//	400 {error, body?}                           malformed body or missing required field
//	500 {error}                                  secrets not deployed
//	500 {success:false, status, data, sentPayload} upstream rejected or unreachable
func (h *TrackHandler) TrackEventHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON"})
		return
	}

	var req models.TrackRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid JSON"})
		return
	}

	if err := req.Validate(); err != nil {
		// Echo the received body so the caller can see what the relay saw.
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error(), Body: raw})
		return
	}

	rctx := models.RequestContext{
		IP:        utils.ClientIP(r.Header),
		UserAgent: r.UserAgent(),
	}

	result, err := h.Service.Send(r.Context(), req, rctx)
	if err != nil {
		if errors.Is(err, service.ErrConfigurationMissing) {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Missing TikTok secrets"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	if !result.Success {
		writeJSON(w, http.StatusInternalServerError, models.TrackFailure{
			Success:     false,
			Status:      result.UpstreamStatus,
			Data:        result.UpstreamBody,
			SentPayload: result.SentPayload,
			Error:       result.Err,
		})
		return
	}

	writeJSON(w, http.StatusOK, models.TrackSuccess{
		Success: true,
		Status:  result.UpstreamStatus,
		Data:    result.UpstreamBody,
	})
}

// TrackStatusHandler answers GET probes with a fixed liveness string so a
// browser visit confirms the endpoint is deployed.
func (h *TrackHandler) TrackStatusHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("TikTok events endpoint OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
