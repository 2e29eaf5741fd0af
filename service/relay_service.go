package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"tiktok-relay/config"
	"tiktok-relay/models"
)

// ErrConfigurationMissing means the pixel id or access token is not deployed.
// Fatal until redeployed with secrets; no upstream call is attempted.
var ErrConfigurationMissing = errors.New("missing TikTok secrets")

// timestampLayout matches the millisecond-precision ISO-8601 UTC form the
// Events API accepts (JavaScript Date.toISOString()).
const timestampLayout = "2006-01-02T15:04:05.000Z"

// RelayService forwards conversion events to the TikTok Events API.
// Stateless: one inbound request produces at most one outbound POST,
// no retries, no caching.
type RelayService struct {
	config *config.Config
	client *http.Client
	log    zerolog.Logger

	now func() time.Time
}

func NewRelayService(cfg *config.Config, log zerolog.Logger) *RelayService {
	timeout := cfg.UpstreamTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RelayService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		log:    log,
		now:    time.Now,
	}
}

// BuildPayload assembles the outbound conversion body. The timestamp is
// stamped here, never taken from the caller. Optional caller fields that
// were absent stay absent on the wire. The click identifier is nested under
// context.ad.callback unless the flattened shape is configured.
func (s *RelayService) BuildPayload(req models.TrackRequest, rctx models.RequestContext) *models.ConversionPayload {
	p := &models.ConversionPayload{
		PixelCode:     s.config.PixelCode,
		Event:         req.Event,
		EventID:       req.EventID,
		Timestamp:     s.now().UTC().Format(timestampLayout),
		TestEventCode: s.config.TestEventCode,
		Context: models.EventContext{
			Page: models.PageContext{URL: req.PageURL, Referrer: req.Referrer},
			User: models.UserContext{IP: rctx.IP, UserAgent: rctx.UserAgent, TTP: req.TTP},
		},
		Properties: req.Properties,
	}

	if req.TTCLID != "" {
		if s.config.NestAdContext {
			p.Context.Ad = &models.AdContext{Callback: req.TTCLID}
		} else {
			p.Context.User.TTCLID = req.TTCLID
		}
	}

	return p
}

// Send performs the single forwarding attempt and normalizes the outcome.
// The only returned error is ErrConfigurationMissing (checked before any
// network I/O); transport failures come back as a failure result so the
// handler can reply with the diagnostic echo.
func (s *RelayService) Send(ctx context.Context, req models.TrackRequest, rctx models.RequestContext) (models.RelayResult, error) {
	if s.config.PixelCode == "" || s.config.AccessToken == "" {
		return models.RelayResult{}, ErrConfigurationMissing
	}

	payload := s.BuildPayload(req, rctx)
	body, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.EventsURL, bytes.NewReader(body))
	if err != nil {
		return models.RelayResult{SentPayload: payload, Err: err.Error()}, nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Access-Token", s.config.AccessToken)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.log.Error().Err(err).Str("event", req.Event).Msg("upstream unreachable")
		return models.RelayResult{SentPayload: payload, Err: err.Error()}, nil
	}
	defer resp.Body.Close()

	// Tolerate unparseable bodies: the sentinel check below then fails closed.
	var upstream map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		upstream = nil
	}

	result := models.RelayResult{
		Success:        resp.StatusCode >= 200 && resp.StatusCode < 300 && upstreamAccepted(upstream),
		UpstreamStatus: resp.StatusCode,
		UpstreamBody:   upstream,
		SentPayload:    payload,
	}

	if result.Success {
		s.log.Info().Str("event", req.Event).Int("status", resp.StatusCode).Msg("event relayed")
	} else {
		s.log.Error().
			Str("event", req.Event).
			Int("status", resp.StatusCode).
			Interface("upstream_body", upstream).
			Msg("upstream rejected event")
	}

	return result, nil
}

// upstreamAccepted reports whether the decoded body carries the API's
// zero "ok" code. A 200 with a non-zero code is still a rejection.
func upstreamAccepted(body map[string]any) bool {
	code, ok := body["code"].(float64)
	return ok && code == models.UpstreamOKCode
}
