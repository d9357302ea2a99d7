package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/karasi-sonica/PawzIO/internal/application"
	"github.com/karasi-sonica/PawzIO/internal/config"
)

// HTTPDirectory queries an external roster service for provider roles and
// current walk load.
type HTTPDirectory struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPDirectory(cfg config.DirectoryConfig) *HTTPDirectory {
	return &HTTPDirectory{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (d *HTTPDirectory) RoleOf(ctx context.Context, providerID string) (application.ProviderRole, error) {
	p, err := d.fetchProvider(ctx, providerID)
	if err != nil {
		return "", err
	}
	return application.ProviderRole(p.Role), nil
}

func (d *HTTPDirectory) CurrentLoad(ctx context.Context, providerID string) (int, error) {
	p, err := d.fetchProvider(ctx, providerID)
	if err != nil {
		return 0, err
	}
	return p.ActiveWalks, nil
}

func (d *HTTPDirectory) ProvidersWithRole(ctx context.Context, role application.ProviderRole) ([]string, error) {
	u := fmt.Sprintf("%s/api/v1/providers?role=%s", d.baseURL, url.QueryEscape(string(role)))
	resp, err := sendRequest[ProviderListResponse](d, ctx, u)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Providers))
	for _, p := range resp.Providers {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (d *HTTPDirectory) fetchProvider(ctx context.Context, providerID string) (*ProviderResponse, error) {
	u := fmt.Sprintf("%s/api/v1/providers/%s", d.baseURL, url.PathEscape(providerID))
	return sendRequest[ProviderResponse](d, ctx, u)
}

func sendRequest[Resp any](d *HTTPDirectory, ctx context.Context, url string) (*Resp, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, application.ErrProviderNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp DirectoryErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("directory returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, &DirectoryError{
			Code:       errResp.Err,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var parsed Resp
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &parsed, nil
}
