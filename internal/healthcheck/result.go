package healthcheck

import (
	"encoding/json"
	"time"
)

// Result describes one probed candidate URL.
type Result struct {
	RequestURL string
	OK         bool
	// StatusCode is nil when no HTTP response was received.
	StatusCode *int
	Elapsed    time.Duration
	// Payload is the decoded response body, nil when it was not JSON.
	Payload any
	Error   string
}

type resultJSON struct {
	RequestURL string  `json:"request_url"`
	OK         bool    `json:"ok"`
	StatusCode *int    `json:"status_code"`
	ElapsedMS  int64   `json:"elapsed_ms"`
	Payload    any     `json:"payload"`
	Error      *string `json:"error"`
}

// MarshalJSON renders the result in the shape the shell UI consumes.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		RequestURL: r.RequestURL,
		OK:         r.OK,
		StatusCode: r.StatusCode,
		ElapsedMS:  r.Elapsed.Milliseconds(),
		Payload:    r.Payload,
	}
	if r.Error != "" {
		out.Error = &r.Error
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*r = Result{
		RequestURL: in.RequestURL,
		OK:         in.OK,
		StatusCode: in.StatusCode,
		Elapsed:    time.Duration(in.ElapsedMS) * time.Millisecond,
		Payload:    in.Payload,
	}
	if in.Error != nil {
		r.Error = *in.Error
	}
	return nil
}

// HasStatus reports whether an HTTP response was received.
func (r Result) HasStatus() bool {
	return r.StatusCode != nil
}
