package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// SessionTimeouts centralizes every bounded wait in the session pipeline.
// This keeps pacing consistent across the orchestrator, the rate limiter,
// and the transcript buffer, and prevents timeout conflicts.
//
// All timeouts here are soft: when one expires the orchestrator proceeds
// with whatever state it has rather than aborting the session.
type SessionTimeouts struct {
	// ResponseTimeout bounds the wait for the agent to finish speaking
	// after an exchange prompt has been sent.
	ResponseTimeout time.Duration `yaml:"response_timeout"`

	// APICallDelay is the minimum interval between any two outbound calls
	// to the agent service. Enforced process-wide by the rate limiter gate.
	APICallDelay time.Duration `yaml:"api_call_delay"`

	// StartTimeout bounds the wait for the agent to start speaking after
	// activation. Expiry is non-fatal; the session proceeds.
	StartTimeout time.Duration `yaml:"start_timeout"`

	// TerminationTimeout bounds the wait for the outgoing agent to fall
	// quiet before handoff to the next customer.
	TerminationTimeout time.Duration `yaml:"termination_timeout"`

	// DelayBetweenCustomers is the settle delay on either side of a handoff.
	DelayBetweenCustomers time.Duration `yaml:"delay_between_customers"`

	// FadeDuration bounds each fade signalled to the transition presenter.
	FadeDuration time.Duration `yaml:"fade_duration"`

	// TranscriptGracePeriod is how long to wait after speech ends before
	// the first transcript poll. Transcript delivery can lag the end of
	// audible speech; premature cutoff is the failure mode to guard against.
	TranscriptGracePeriod time.Duration `yaml:"transcript_grace_period"`

	// TranscriptPollRetries is how many times to re-poll an empty buffer
	// before substituting the fallback text.
	TranscriptPollRetries int `yaml:"transcript_poll_retries"`

	// TranscriptPollInterval is the delay between transcript polls.
	TranscriptPollInterval time.Duration `yaml:"transcript_poll_interval"`
}

// DefaultSessionTimeouts returns the canonical pacing for a live agent service.
func DefaultSessionTimeouts() SessionTimeouts {
	return SessionTimeouts{
		ResponseTimeout:        15 * time.Second,
		APICallDelay:           2 * time.Second,
		StartTimeout:           10 * time.Second,
		TerminationTimeout:     10 * time.Second,
		DelayBetweenCustomers:  2 * time.Second,
		FadeDuration:           1 * time.Second,
		TranscriptGracePeriod:  3 * time.Second,
		TranscriptPollRetries:  5,
		TranscriptPollInterval: 1 * time.Second,
	}
}

// FastSessionTimeouts returns compressed pacing for tests and the scripted
// provider, where there is no real network latency to absorb.
func FastSessionTimeouts() SessionTimeouts {
	return SessionTimeouts{
		ResponseTimeout:        200 * time.Millisecond,
		APICallDelay:           10 * time.Millisecond,
		StartTimeout:           100 * time.Millisecond,
		TerminationTimeout:     100 * time.Millisecond,
		DelayBetweenCustomers:  20 * time.Millisecond,
		FadeDuration:           10 * time.Millisecond,
		TranscriptGracePeriod:  20 * time.Millisecond,
		TranscriptPollRetries:  3,
		TranscriptPollInterval: 10 * time.Millisecond,
	}
}

// rawSessionTimeouts is the YAML wire form: durations as "15s" strings so the
// config file reads naturally. Absent fields keep whatever value the struct
// already holds, which is how file values merge over defaults.
type rawSessionTimeouts struct {
	ResponseTimeout        string `yaml:"response_timeout"`
	APICallDelay           string `yaml:"api_call_delay"`
	StartTimeout           string `yaml:"start_timeout"`
	TerminationTimeout     string `yaml:"termination_timeout"`
	DelayBetweenCustomers  string `yaml:"delay_between_customers"`
	FadeDuration           string `yaml:"fade_duration"`
	TranscriptGracePeriod  string `yaml:"transcript_grace_period"`
	TranscriptPollRetries  *int   `yaml:"transcript_poll_retries"`
	TranscriptPollInterval string `yaml:"transcript_poll_interval"`
}

// UnmarshalYAML decodes duration strings, leaving absent fields untouched.
func (t *SessionTimeouts) UnmarshalYAML(value *yaml.Node) error {
	var raw rawSessionTimeouts
	if err := value.Decode(&raw); err != nil {
		return err
	}

	fields := []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"response_timeout", raw.ResponseTimeout, &t.ResponseTimeout},
		{"api_call_delay", raw.APICallDelay, &t.APICallDelay},
		{"start_timeout", raw.StartTimeout, &t.StartTimeout},
		{"termination_timeout", raw.TerminationTimeout, &t.TerminationTimeout},
		{"delay_between_customers", raw.DelayBetweenCustomers, &t.DelayBetweenCustomers},
		{"fade_duration", raw.FadeDuration, &t.FadeDuration},
		{"transcript_grace_period", raw.TranscriptGracePeriod, &t.TranscriptGracePeriod},
		{"transcript_poll_interval", raw.TranscriptPollInterval, &t.TranscriptPollInterval},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		d, err := time.ParseDuration(f.src)
		if err != nil {
			return fmt.Errorf("timeouts.%s: %w", f.name, err)
		}
		*f.dst = d
	}
	if raw.TranscriptPollRetries != nil {
		t.TranscriptPollRetries = *raw.TranscriptPollRetries
	}
	return nil
}

// MarshalYAML emits durations back as strings.
func (t SessionTimeouts) MarshalYAML() (interface{}, error) {
	retries := t.TranscriptPollRetries
	return rawSessionTimeouts{
		ResponseTimeout:        t.ResponseTimeout.String(),
		APICallDelay:           t.APICallDelay.String(),
		StartTimeout:           t.StartTimeout.String(),
		TerminationTimeout:     t.TerminationTimeout.String(),
		DelayBetweenCustomers:  t.DelayBetweenCustomers.String(),
		FadeDuration:           t.FadeDuration.String(),
		TranscriptGracePeriod:  t.TranscriptGracePeriod.String(),
		TranscriptPollRetries:  &retries,
		TranscriptPollInterval: t.TranscriptPollInterval.String(),
	}, nil
}

// Validate rejects values the session loop cannot make progress with.
func (t SessionTimeouts) Validate() error {
	if t.APICallDelay < 0 {
		return fmt.Errorf("api_call_delay must not be negative")
	}
	if t.ResponseTimeout <= 0 {
		return fmt.Errorf("response_timeout must be positive")
	}
	if t.StartTimeout <= 0 {
		return fmt.Errorf("start_timeout must be positive")
	}
	if t.TerminationTimeout <= 0 {
		return fmt.Errorf("termination_timeout must be positive")
	}
	if t.TranscriptPollRetries < 0 {
		return fmt.Errorf("transcript_poll_retries must not be negative")
	}
	if t.TranscriptPollInterval <= 0 {
		return fmt.Errorf("transcript_poll_interval must be positive")
	}
	return nil
}
