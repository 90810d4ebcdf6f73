package healthcheck

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/antihub/antihook/internal/baseurl"
)

// DefaultTimeout bounds each candidate request, body read included.
const DefaultTimeout = 8 * time.Second

const (
	healthPath        = "/api/health"
	backendHealthPath = "/backend/api/health"
)

// Recorder receives every candidate attempt a probe makes.
type Recorder interface {
	RecordProbe(requestURL string, statusCode int, elapsed time.Duration, ok bool)
}

// Probe checks AntiHub health endpoints. It holds no per-check state and is
// safe for concurrent use.
type Probe struct {
	client   *http.Client
	logger   *slog.Logger
	recorder Recorder
}

// New creates a Probe whose requests time out after timeout. A zero timeout
// means DefaultTimeout. logger and recorder may be nil.
func New(timeout time.Duration, logger *slog.Logger, recorder Recorder) *Probe {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Probe{
		client: &http.Client{
			Timeout: timeout,
		},
		logger:   logger,
		recorder: recorder,
	}
}

// Candidates returns the health URLs for a normalized base, in probe order.
func Candidates(base string) []string {
	return []string{
		baseurl.Join(base, healthPath),
		baseurl.Join(base, backendHealthPath),
	}
}

// ShouldTryNext reports whether a failed attempt should fall through to the
// next candidate. Only a 404 or a transport failure (no status) does, and
// only if a candidate remains.
func ShouldTryNext(statusCode *int, hasMore bool) bool {
	if !hasMore {
		return false
	}
	return statusCode == nil || *statusCode == http.StatusNotFound
}

// Check probes the candidates for baseURL in order and returns the first
// healthy result, or the failure that stopped the sequence. Only an invalid
// baseURL produces an error; request failures are reported in the Result.
func (p *Probe) Check(ctx context.Context, baseURL string) (Result, error) {
	base, err := baseurl.Normalize(baseURL)
	if err != nil {
		return Result{}, err
	}

	probeID := uuid.NewString()
	log := p.logger.With(
		slog.String("probe_id", probeID),
		slog.String("base_url", base))

	candidates := Candidates(base)

	var last *Result
	for i, candidate := range candidates {
		result := p.fetch(ctx, candidate, probeID)
		p.record(result)

		if result.OK {
			log.Info("health check passed",
				slog.String("url", result.RequestURL),
				slog.Int("status", *result.StatusCode),
				slog.Duration("elapsed", result.Elapsed))
			return result, nil
		}

		last = &result

		if !ShouldTryNext(result.StatusCode, i+1 < len(candidates)) {
			break
		}

		log.Debug("health candidate missed, trying next",
			slog.String("url", result.RequestURL),
			statusAttr(result.StatusCode),
			slog.String("error", result.Error))
	}

	if last == nil {
		return Result{
			RequestURL: candidates[0],
			Error:      "unknown error",
		}, nil
	}

	log.Warn("health check failed",
		slog.String("url", last.RequestURL),
		statusAttr(last.StatusCode),
		slog.String("error", last.Error))

	return *last, nil
}

func (p *Probe) fetch(ctx context.Context, requestURL, probeID string) Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Result{
			RequestURL: requestURL,
			Elapsed:    time.Since(start),
			Error:      err.Error(),
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", probeID)

	res, err := p.client.Do(req)
	if err != nil {
		return Result{
			RequestURL: requestURL,
			Elapsed:    time.Since(start),
			Error:      err.Error(),
		}
	}
	defer res.Body.Close()

	statusCode := res.StatusCode
	body, err := io.ReadAll(res.Body)
	if err != nil {
		p.logger.Debug("failed to read health response body",
			slog.String("probe_id", probeID),
			slog.String("url", requestURL),
			slog.Int("status", statusCode),
			slog.String("error", err.Error()))
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		payload = nil
	}

	return Result{
		RequestURL: requestURL,
		OK:         statusCode >= 200 && statusCode < 300,
		StatusCode: &statusCode,
		Elapsed:    time.Since(start),
		Payload:    payload,
	}
}

func (p *Probe) record(r Result) {
	if p.recorder == nil {
		return
	}

	statusCode := 0
	if r.HasStatus() {
		statusCode = *r.StatusCode
	}
	p.recorder.RecordProbe(r.RequestURL, statusCode, r.Elapsed, r.OK)
}

func statusAttr(statusCode *int) slog.Attr {
	if statusCode == nil {
		return slog.String("status", "none")
	}
	return slog.Int("status", *statusCode)
}
