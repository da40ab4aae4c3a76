package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/utils/timingutils"
	"github.com/prismaasset360/web/pkg/errorcode"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// RefreshPath is the backend endpoint that exchanges a refresh token for a new token pair.
const RefreshPath = "/auth/refresh"

// Request describes one backend call.
type Request struct {
	Method string
	Path   string // Path below the API prefix, e.g. "/activos/12"
	Query  url.Values
	Body   interface{} // Marshalled as JSON if not nil
	// SkipAuth marks requests that carry no bearer token and never trigger a refresh (login, refresh).
	SkipAuth bool
}

// Requester is what services need from the HTTP client.
type Requester interface {
	// Do performs the request and decodes a JSON response into `out` (if not nil).
	Do(ctx context.Context, req *Request, out interface{}) error

	// GetRaw performs a GET request and returns the raw response body and its content type.
	GetRaw(ctx context.Context, path string, query url.Values) ([]byte, string, error)
}

// Client is the single gateway to the REST backend. Every request is authenticated with the bearer token of the
// token store found in the request context. A 401 triggers one refresh and one replay of the original request.
type Client struct {
	apiPrefix    string
	httpClient   *http.Client
	refreshGroup singleflight.Group
}

// NewClient creates a client for the backend at `apiPrefix` (e.g. "http://localhost:8080/api").
func NewClient(apiPrefix string, timeout time.Duration) *Client {
	return &Client{
		apiPrefix: strings.TrimRight(apiPrefix, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIPrefix returns the backend address the client talks to.
func (c *Client) APIPrefix() string {
	return c.apiPrefix
}

type response struct {
	statusCode  int
	contentType string
	body        []byte
}

// Do implements Requester.
func (c *Client) Do(ctx context.Context, req *Request, out interface{}) error {
	resp, err := c.execute(ctx, req)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	trimmed := bytes.TrimSpace(resp.body)
	if len(trimmed) == 0 {
		return nil
	}

	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], trimmed...)
		return nil
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return errors.Wrapf(err, "respuesta no válida de '%v %v'", req.Method, req.Path)
	}

	return nil
}

// GetRaw implements Requester.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	resp, err := c.execute(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, "", err
	}

	return resp.body, resp.contentType, nil
}

// execute sends the request and, on a 401, refreshes the tokens and replays the request exactly once.
func (c *Client) execute(ctx context.Context, req *Request) (*response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "no se pudo serializar el cuerpo de la solicitud")
		}
	}

	tokens := TokensFromContext(ctx)
	sentAccessToken := ""
	if tokens != nil && !req.SkipAuth {
		sentAccessToken = tokens.Tokens().AccessToken
	}

	resp, err := c.roundTrip(ctx, req, bodyBytes, sentAccessToken)
	if err != nil {
		return nil, err
	}

	if resp.statusCode != http.StatusUnauthorized || req.SkipAuth || tokens == nil {
		return resp, GetClassifiedError(resp.statusCode, resp.body)
	}

	log.Debugf("El servidor rechazó el token de acceso para '%v %v'; se intentará refrescar.", req.Method, req.Path)
	if err := c.refresh(ctx, tokens, sentAccessToken); err != nil {
		return nil, err
	}

	// The replay is never retried again: a second 401 goes back to the caller as is.
	resp, err = c.roundTrip(ctx, req, bodyBytes, tokens.Tokens().AccessToken)
	if err != nil {
		return nil, err
	}

	return resp, GetClassifiedError(resp.statusCode, resp.body)
}

// refresh exchanges the refresh token for a new pair. Token stores shared through a backing store are reloaded
// first: a caller whose rejected access token was already replaced by someone else's refresh adopts the current
// pair and does nothing more. Concurrent callers holding the same refresh token share one backend call.
// On failure the token store is cleared and ErrorSessionExpired is returned.
func (c *Client) refresh(ctx context.Context, tokens TokenStore, rejectedAccessToken string) error {
	current := tokens.Tokens()
	if reloader, ok := tokens.(TokenReloader); ok {
		reloaded, err := reloader.ReloadTokens()
		switch {
		case err == nil:
			current = reloaded
		case errors.Cause(err) == errorcode.ErrorNotFound:
			// Logged out or swept by another request.
			c.clearTokens(tokens)
			return errors.Wrap(errorcode.ErrorSessionExpired, "la sesión ya no existe")
		default:
			log.Warnln(errors.Wrap(err, "no se pudieron recargar los tokens de la sesión"))
		}
	}

	if current.AccessToken != "" && current.AccessToken != rejectedAccessToken {
		return nil
	}

	if current.RefreshToken == "" {
		c.clearTokens(tokens)
		return errors.Wrap(errorcode.ErrorSessionExpired, "no hay token de refresco")
	}

	refreshToken := current.RefreshToken
	result, err, shared := c.refreshGroup.Do(refreshToken, func() (interface{}, error) {
		var pair common.TokenPair
		err := c.Do(context.WithoutCancel(ctx), &Request{
			Method:   http.MethodPost,
			Path:     RefreshPath,
			Body:     map[string]string{"refreshToken": refreshToken},
			SkipAuth: true,
		}, &pair)
		if err != nil {
			return nil, err
		}

		if pair.AccessToken == "" {
			return nil, errors.New("la respuesta de refresco no contiene un token de acceso")
		}

		// Backends that don't rotate refresh tokens only send the access token.
		if pair.RefreshToken == "" {
			pair.RefreshToken = refreshToken
		}

		// Persisted before the call is released, so a caller reloading afterwards sees the new pair.
		if err := tokens.SetTokens(pair); err != nil {
			return nil, errors.Wrap(err, "no se pudieron guardar los tokens refrescados")
		}

		return pair, nil
	})
	if err != nil {
		log.Infof("No se pudo refrescar la sesión: %v", err)
		c.clearTokens(tokens)
		return errors.Wrap(errorcode.ErrorSessionExpired, "la sesión ha expirado")
	}

	if shared {
		log.Debugln("Refresco de tokens compartido con otra solicitud en curso.")
	}

	// Callers sharing the refresh may hold other store instances of the same user.
	if err := tokens.SetTokens(result.(common.TokenPair)); err != nil {
		return errors.Wrap(err, "no se pudieron guardar los tokens refrescados")
	}

	return nil
}

func (c *Client) clearTokens(tokens TokenStore) {
	if err := tokens.Clear(); err != nil {
		log.Warnln(errors.Wrap(err, "no se pudo limpiar la sesión"))
	}
}

func (c *Client) roundTrip(ctx context.Context, req *Request, bodyBytes []byte, accessToken string) (*response, error) {
	defer timingutils.GetDeferrableTimingLogger(fmt.Sprintf("%v %v", req.Method, req.Path))()

	endpoint := c.apiPrefix + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, bodyReader)
	if err != nil {
		return nil, errors.Wrapf(err, "no se pudo preparar la solicitud '%v %v'", req.Method, req.Path)
	}

	httpReq.Header.Set("Accept", "application/json")
	if bodyBytes != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		httpReq.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ctx.Err(), "solicitud '%v %v' cancelada", req.Method, req.Path)
		}
		log.Warnf("No se pudo contactar al servidor para '%v %v': %v", req.Method, req.Path, err)
		return nil, errors.Wrapf(errorcode.ErrorBackendUnavailable, "no se pudo contactar al servidor: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "no se pudo leer la respuesta de '%v %v'", req.Method, req.Path)
	}

	if resp.StatusCode >= 500 {
		log.Warnf("El servidor respondió %v para '%v %v'", resp.StatusCode, req.Method, req.Path)
	}

	return &response{
		statusCode:  resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        respBody,
	}, nil
}

// UnwrapList decodes a list response into `out`. The backend sends lists either as a bare JSON array or inside an
// envelope under "data", "items" or "results".
func UnwrapList(raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '[' {
		return errors.Wrap(json.Unmarshal(trimmed, out), "lista no válida")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return errors.Wrap(err, "lista no válida")
	}

	for _, key := range []string{"data", "items", "results"} {
		if inner, ok := envelope[key]; ok {
			return UnwrapList(inner, out)
		}
	}

	return errors.New("la respuesta no contiene una lista")
}
