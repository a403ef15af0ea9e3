package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultKeyPrefix     = "atende:appointment:"
	maxResponseSizeBytes = 2 << 20
)

// UpstashConfig configures the Redis-backed repository variant.
type UpstashConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// UpstashRepository persists appointments in Upstash Redis via REST, mirroring
// the in-memory layout: one key per appointment plus a set per normalized
// contact and a set of all ids.
type UpstashRepository struct {
	baseURL    string
	token      string
	keyPrefix  string
	httpClient *http.Client
}

var _ Repository = (*UpstashRepository)(nil)

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type UpstashOption func(*UpstashRepository)

func WithKeyPrefix(prefix string) UpstashOption {
	return func(r *UpstashRepository) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			r.keyPrefix = trimmed
		}
	}
}

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(r *UpstashRepository) {
		if client != nil {
			r.httpClient = client
		}
	}
}

func NewUpstashRepository(cfg UpstashConfig, opts ...UpstashOption) (*UpstashRepository, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	repo := &UpstashRepository{
		baseURL:   baseURL,
		token:     token,
		keyPrefix: defaultKeyPrefix,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}

	return repo, nil
}

func (r *UpstashRepository) Save(ctx context.Context, appointment *Appointment) error {
	if appointment == nil {
		return errors.New("appointment is nil")
	}

	payload, err := json.Marshal(appointment)
	if err != nil {
		return fmt.Errorf("marshal appointment: %w", err)
	}

	if _, err := r.exec(ctx, []any{"SET", r.appointmentKey(appointment.AppointmentID), string(payload)}); err != nil {
		return err
	}
	if _, err := r.exec(ctx, []any{"SADD", r.contactKey(appointment.PatientContact), appointment.AppointmentID}); err != nil {
		return err
	}
	if _, err := r.exec(ctx, []any{"SADD", r.allKey(), appointment.AppointmentID}); err != nil {
		return err
	}
	_, err = r.exec(ctx, []any{"SADD", r.contactSetKey(), r.contactKey(appointment.PatientContact)})
	return err
}

func (r *UpstashRepository) FindByID(ctx context.Context, appointmentID string) (*Appointment, bool, error) {
	resp, err := r.exec(ctx, []any{"GET", r.appointmentKey(appointmentID)})
	if err != nil {
		return nil, false, err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, false, nil
	}

	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return nil, false, fmt.Errorf("decode appointment payload: %w", err)
	}

	var appointment Appointment
	if err := json.Unmarshal([]byte(encoded), &appointment); err != nil {
		return nil, false, fmt.Errorf("unmarshal appointment: %w", err)
	}

	return &appointment, true, nil
}

func (r *UpstashRepository) FindByContact(ctx context.Context, patientContact string) ([]*Appointment, error) {
	ids, err := r.members(ctx, r.contactKey(patientContact))
	if err != nil {
		return nil, err
	}

	out := make([]*Appointment, 0, len(ids))
	for _, id := range ids {
		appointment, found, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (r *UpstashRepository) FutureActive(ctx context.Context, patientContact string, asOf time.Time) ([]*Appointment, error) {
	all, err := r.FindByContact(ctx, patientContact)
	if err != nil {
		return nil, err
	}

	out := make([]*Appointment, 0, len(all))
	for _, appointment := range all {
		if appointment.Active(asOf) {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (r *UpstashRepository) Cancel(ctx context.Context, appointmentID string) (bool, error) {
	appointment, found, err := r.FindByID(ctx, appointmentID)
	if err != nil || !found {
		return false, err
	}

	appointment.Status = StatusCancelled
	if err := r.Save(ctx, appointment); err != nil {
		return false, err
	}
	return true, nil
}

func (r *UpstashRepository) All(ctx context.Context) ([]*Appointment, error) {
	ids, err := r.members(ctx, r.allKey())
	if err != nil {
		return nil, err
	}

	out := make([]*Appointment, 0, len(ids))
	for _, id := range ids {
		appointment, found, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, appointment)
		}
	}
	return out, nil
}

func (r *UpstashRepository) Clear(ctx context.Context) error {
	ids, err := r.members(ctx, r.allKey())
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := r.exec(ctx, []any{"DEL", r.appointmentKey(id)}); err != nil {
			return err
		}
	}

	contactKeys, err := r.members(ctx, r.contactSetKey())
	if err != nil {
		return err
	}
	for _, key := range contactKeys {
		if _, err := r.exec(ctx, []any{"DEL", key}); err != nil {
			return err
		}
	}

	if _, err := r.exec(ctx, []any{"DEL", r.allKey()}); err != nil {
		return err
	}
	_, err = r.exec(ctx, []any{"DEL", r.contactSetKey()})
	return err
}

func (r *UpstashRepository) appointmentKey(appointmentID string) string {
	return r.keyPrefix + appointmentID
}

func (r *UpstashRepository) contactKey(patientContact string) string {
	return r.keyPrefix + "contact:" + NormalizeContact(patientContact)
}

func (r *UpstashRepository) allKey() string {
	return r.keyPrefix + "all"
}

func (r *UpstashRepository) contactSetKey() string {
	return r.keyPrefix + "contacts"
}

func (r *UpstashRepository) members(ctx context.Context, key string) ([]string, error) {
	resp, err := r.exec(ctx, []any{"SMEMBERS", key})
	if err != nil {
		return nil, err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, nil
	}

	var members []string
	if err := json.Unmarshal(result, &members); err != nil {
		return nil, fmt.Errorf("decode set members: %w", err)
	}
	return members, nil
}

func (r *UpstashRepository) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("redis rest status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("redis rest error: %s", parsed.Error)
	}

	return &parsed, nil
}
