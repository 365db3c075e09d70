// Package api реализует удаленный источник данных BookVault поверх GraphQL.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/bookvault/pkg/api"
)

// Client представляет HTTP клиент GraphQL endpoint
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	token      string
}

// NewClient создает новый API клиент
func NewClient(endpoint string, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		logger:   logger,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: NewLoggingTransport(http.DefaultTransport, logger),
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetToken задает bearer токен. Просроченный токен отклоняется сразу,
// чтобы не получать 401 на каждую мутацию.
func (c *Client) SetToken(token string) error {
	if token == "" {
		c.token = ""
		return nil
	}
	if err := CheckToken(token, time.Now()); err != nil {
		return err
	}
	c.token = token
	return nil
}

// Do выполняет документ doc с переменными vars и декодирует data в out
func (c *Client) Do(ctx context.Context, doc Document, vars map[string]any, out any) error {
	body, err := json.Marshal(api.GraphQLRequest{
		Query:         doc.Text,
		OperationName: doc.Name,
		Variables:     vars,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// GraphQL серверы отвечают 200 и на ошибки выполнения, поэтому errors
	// проверяется отдельно от статуса
	var gqlResp api.GraphQLResponse
	decodeErr := json.Unmarshal(respBody, &gqlResp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && len(gqlResp.Errors) > 0 {
			return fmt.Errorf("server error (%d): %w", resp.StatusCode, joinErrors(gqlResp.Errors))
		}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("%s: %w", doc.Name, joinErrors(gqlResp.Errors))
	}

	if out != nil {
		if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
			return fmt.Errorf("%s: response has no data", doc.Name)
		}
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s data: %w", doc.Name, err)
		}
	}

	return nil
}

func joinErrors(list []api.GraphQLError) error {
	errs := make([]error, len(list))
	for i := range list {
		errs[i] = list[i]
	}
	return errors.Join(errs...)
}
