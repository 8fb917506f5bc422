package apiimpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/orgball2608/community-feed-bot/internal/api"
	"github.com/orgball2608/community-feed-bot/internal/domain"
	apperrors "github.com/orgball2608/community-feed-bot/pkg/errors"
)

// Me probes the session held in the cookie jar.
func (a *APIImpl) Me(ctx context.Context) (domain.Identity, error) {
	resp, err := a.do(ctx, http.MethodGet, mePath, nil)
	if err != nil {
		return domain.Identity{}, err
	}
	defer safeClose(resp.Body, a)

	if resp.StatusCode != http.StatusOK {
		a.Logger.Debug("No active session", "status", resp.StatusCode)
		return domain.Identity{}, api.ErrNoSession
	}

	return decodeIdentity(resp.Body, mePath)
}

func (a *APIImpl) LogIn(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	return a.authenticate(ctx, logInPath, creds)
}

func (a *APIImpl) SignUp(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	return a.authenticate(ctx, signUpPath, creds)
}

func (a *APIImpl) LogOut(ctx context.Context) error {
	resp, err := a.do(ctx, http.MethodDelete, logOutPath, nil)
	if err != nil {
		return err
	}
	defer safeClose(resp.Body, a)

	return checkResp(resp, logOutPath)
}

func (a *APIImpl) authenticate(ctx context.Context, path string, creds domain.Credentials) (domain.Identity, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%s: encode: %w", path, err)
	}

	resp, err := a.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return domain.Identity{}, err
	}
	defer safeClose(resp.Body, a)

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.Identity{}, api.ErrInvalidCredentials
	}
	if err := checkResp(resp, path); err != nil {
		return domain.Identity{}, err
	}

	return decodeIdentity(resp.Body, path)
}

func (a *APIImpl) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", method, path, apperrors.ErrUpstream, err)
	}
	return resp, nil
}

// checkResp returns a StatusError carrying the upstream body for anything but 200.
func checkResp(resp *http.Response, path string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &api.StatusError{Op: path, StatusCode: resp.StatusCode, Body: string(body)}
}

func decodeIdentity(r io.Reader, path string) (domain.Identity, error) {
	var identity domain.Identity
	if err := json.NewDecoder(r).Decode(&identity); err != nil {
		return domain.Identity{}, fmt.Errorf("%s: decode: %w: %w", path, apperrors.ErrUpstream, err)
	}
	if identity.ID == "" {
		return domain.Identity{}, fmt.Errorf("%s: identity without id: %w", path, apperrors.ErrUpstream)
	}
	return identity, nil
}

func safeClose(closer io.ReadCloser, a *APIImpl) {
	if err := closer.Close(); err != nil {
		a.Logger.Error("Error closing response body", "error", err)
	}
}
