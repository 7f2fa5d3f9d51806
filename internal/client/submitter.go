package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"goal-roadmap/internal/config"
	"goal-roadmap/internal/domain"
)

const (
	generateRoadmapPath = "/generate-roadmap"
	maxResponseBytes    = 4 << 20
	defaultTimeout      = 120 * time.Second
)

// Modos de validación de la respuesta.
const (
	ResponseModeJSON   = "json"
	ResponseModeStrict = "strict"
)

// Options configura el Submitter.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	ResponseMode string
	HTTPClient   *http.Client
}

// OptionsFromConfig traduce la configuración del cliente.
func OptionsFromConfig(cfg *config.ClientConfig) Options {
	return Options{
		BaseURL:      cfg.APIURL,
		Timeout:      cfg.Timeout,
		ResponseMode: cfg.ResponseMode,
	}
}

// Submitter envia una meta al servicio remoto y reporta el resultado al Observer.
type Submitter struct {
	baseURL  string
	timeout  time.Duration
	strict   bool
	client   *http.Client
	identity Identity
	observer Observer
	logger   *zap.Logger
}

// NewSubmitter construye un Submitter. identity y observer nil usan los valores por defecto.
func NewSubmitter(logger *zap.Logger, opts Options, identity Identity, observer Observer) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if identity == nil {
		identity = DefaultIdentity
	}
	if observer == nil {
		observer = NewLogObserver(logger)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Submitter{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		timeout:  timeout,
		strict:   strings.EqualFold(opts.ResponseMode, ResponseModeStrict),
		client:   httpClient,
		identity: identity,
		observer: observer,
		logger:   logger,
	}
}

// Submit hace un único POST /generate-roadmap con goal tal cual llegó (sin validar).
// Cualquier fallo se reporta al Observer y se devuelve como *RemoteCallFailure.
func (s *Submitter) Submit(ctx context.Context, goal string) (domain.GoalResponse, error) {
	userID, err := s.identity.UserID(ctx)
	if err != nil {
		return s.fail(ctx, &RemoteCallFailure{Goal: goal, Op: OpIdentity, Err: err})
	}

	body, err := json.Marshal(domain.GoalRequest{Goal: goal, UserID: userID})
	if err != nil {
		return s.fail(ctx, &RemoteCallFailure{Goal: goal, Op: OpEncode, Err: err})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, s.baseURL+generateRoadmapPath, bytes.NewReader(body))
	if err != nil {
		return s.fail(ctx, &RemoteCallFailure{Goal: goal, Op: OpEncode, Err: fmt.Errorf("create request: %w", err)})
	}
	req.Header.Set("Content-Type", "application/json")

	s.logger.Debug("submitting goal", zap.String("goal", goal), zap.String("user_id", userID))

	resp, err := s.client.Do(req)
	if err != nil {
		return s.fail(ctx, &RemoteCallFailure{Goal: goal, Op: OpTransport, Err: fmt.Errorf("do request: %w", err)})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return s.fail(ctx, &RemoteCallFailure{Goal: goal, Op: OpRead, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.fail(ctx, &RemoteCallFailure{
			Goal:       goal,
			Op:         OpStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(respBody))),
		})
	}

	if !json.Valid(respBody) {
		return s.fail(ctx, &RemoteCallFailure{Goal: goal, Op: OpParse, StatusCode: resp.StatusCode, Err: errors.New("response body is not valid JSON")})
	}

	if s.strict {
		if err := validateRoadmapBody(respBody); err != nil {
			return s.fail(ctx, &RemoteCallFailure{Goal: goal, Op: OpSchema, StatusCode: resp.StatusCode, Err: err})
		}
	}

	out := domain.GoalResponse{
		StatusCode: resp.StatusCode,
		Body:       json.RawMessage(respBody),
		Roadmap:    decodeRoadmap(goal, respBody),
	}
	s.observer.OnSuccess(goal, out)
	return out, nil
}

// Ping hace GET / contra el servicio; lo usa el bootstrap en modo root.
func (s *Submitter) Ping(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return &RemoteCallFailure{Op: OpEncode, Err: fmt.Errorf("create request: %w", err)}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return &RemoteCallFailure{Op: OpTransport, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteCallFailure{Op: OpStatus, StatusCode: resp.StatusCode, Err: errors.New("service root not healthy")}
	}
	return nil
}

func (s *Submitter) fail(ctx context.Context, rcf *RemoteCallFailure) (domain.GoalResponse, error) {
	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		rcf.Superseded = true
	}
	s.observer.OnFailure(rcf.Goal, rcf)
	return domain.GoalResponse{}, rcf
}

// decodeRoadmap intenta leer el cuerpo como roadmap; nil si no tiene esa forma.
func decodeRoadmap(goal string, body []byte) *domain.Roadmap {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		var topics []domain.Topic
		if err := json.Unmarshal(trimmed, &topics); err != nil || len(topics) == 0 {
			return nil
		}
		return &domain.Roadmap{Goal: goal, Topics: topics}
	}

	var rm domain.Roadmap
	if err := json.Unmarshal(trimmed, &rm); err != nil || len(rm.Topics) == 0 {
		return nil
	}
	return &rm
}
