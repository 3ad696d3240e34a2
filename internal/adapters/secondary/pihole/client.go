package pihole

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
)

const (
	SessionHeader = "X-FTL-SID"

	authPath    = "/api/auth"
	summaryPath = "/api/stats/summary"
	queriesPath = "/api/queries"

	userAgent         = "pidash/1.0"
	noPasswordMessage = "no password set"

	maxPayloadBytes   = 16 << 20
	maxErrorBodyBytes = 256
)

// Client реализует порты Authenticator и BackendClient поверх Pi-hole v6 REST API
// проверка TLS сертификатов отключена: у бэкендов в домашних сетях они самоподписанные
type Client struct {
	client  *http.Client
	timeout time.Duration
	logger  ports.Logger
}

var (
	_ ports.Authenticator = (*Client)(nil)
	_ ports.BackendClient = (*Client)(nil)
)

// NewClient создает клиента; timeout ограничивает каждый отдельный запрос
func NewClient(timeout time.Duration, logger ports.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	transport.MaxIdleConnsPerHost = 4

	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		timeout: timeout,
		logger:  logger.With("adapter", "PiholeClient"),
	}
}

type authRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Session struct {
		Valid   bool   `json:"valid"`
		SID     string `json:"sid"`
		Message string `json:"message"`
	} `json:"session"`
}

// Authenticate выполняет POST /api/auth
// сетевые ошибки возвращаются как error, паники и необработанные исключения не пробрасываются
func (c *Client) Authenticate(ctx context.Context, backend *domain.Backend) (domain.Session, error) {
	body, err := json.Marshal(authRequest{Password: backend.Password})
	if err != nil {
		return domain.Session{}, fmt.Errorf("encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, backend.Endpoint(authPath, nil), bytes.NewReader(body))
	if err != nil {
		return domain.Session{}, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Session{}, c.transportError(http.MethodPost, authPath, err)
	}
	defer drainAndClose(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return domain.Session{}, fmt.Errorf("%w (401 Unauthorized)", domain.ErrIncorrectCredential)
	default:
		return domain.Session{}, statusError(http.MethodPost, authPath, resp)
	}

	var ar authResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&ar); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrMalformedAuthResponse, err)
	}
	switch {
	case ar.Session.SID != "":
		return domain.TokenSession(ar.Session.SID), nil
	case ar.Session.Message == noPasswordMessage:
		c.logger.Debug("Backend has no password set", "backend", backend.Name)
		return domain.NoAuthSession(), nil
	default:
		return domain.Session{}, fmt.Errorf("%w: no session id in response", domain.ErrMalformedAuthResponse)
	}
}

// Read выполняет одно GET чтение; заголовок сессии не ставится для бэкендов без пароля
func (c *Client) Read(ctx context.Context, backend *domain.Backend, op domain.Operation, session domain.Session) (json.RawMessage, error) {
	path, query := endpointFor(op)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, backend.Endpoint(path, query), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if sid, ok := session.HeaderValue(); ok {
		req.Header.Set(SessionHeader, sid)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(http.MethodGet, path, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("GET %s: %w", path, domain.ErrSessionExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(http.MethodGet, path, resp)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, c.transportError(http.MethodGet, path, err)
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("GET %s: response is not valid JSON", path)
	}
	return payload, nil
}

func endpointFor(op domain.Operation) (string, url.Values) {
	switch op.Kind {
	case domain.OperationQueries:
		return queriesPath, url.Values{"length": []string{strconv.Itoa(op.Length)}}
	default:
		return summaryPath, nil
	}
}

// transportError снимает обертку *url.Error, чтобы полный адрес бэкенда не попадал в ответы
func (c *Client) transportError(method, path string, err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if uerr.Timeout() {
			return fmt.Errorf("%s %s: timed out after %s", method, path, c.timeout)
		}
		err = uerr.Err
	}
	return fmt.Errorf("%s %s: %w", method, path, err)
}

func statusError(method, path string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		return fmt.Errorf("%s %s: %w %d", method, path, domain.ErrUnexpectedStatus, resp.StatusCode)
	}
	return fmt.Errorf("%s %s: %w %d: %s", method, path, domain.ErrUnexpectedStatus, resp.StatusCode, msg)
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxPayloadBytes))
	_ = body.Close()
}
