package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Service performs JSON requests against one collaborator.
type Service struct {
	name            string
	baseURL         string
	client          *http.Client
	identityBearing bool
}

// NewService creates a Service for the collaborator called name at baseURL.
func NewService(name, baseURL string, client *http.Client) *Service {
	return &Service{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// IdentityBearing marks the service so that its 401 responses require a new login.
func (s *Service) IdentityBearing() *Service {
	s.identityBearing = true
	return s
}

// Name returns the collaborator name used in error messages.
func (s *Service) Name() string {
	return s.name
}

// Do sends in as the JSON body (when non-nil) and decodes a 2xx response into out (when non-nil).
// Non-2xx responses become *APIError; transport failures become *NetworkError.
func (s *Service) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", s.name, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &NetworkError{Service: s.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return s.decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", s.name, err)
	}
	return nil
}

// decodeError builds an APIError, keeping the server's message when the body carries one.
func (s *Service) decodeError(resp *http.Response) error {
	apiErr := &APIError{
		Service:         s.name,
		Status:          resp.StatusCode,
		identityBearing: s.identityBearing,
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
