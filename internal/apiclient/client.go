// Package apiclient реализует типизированный клиент внешнего REST API FastVisa.
//
// Каждый метод выполняет ровно один HTTP-запрос с JSON-заголовками. Ответ 200
// декодируется в результат, любой другой статус превращается в *Error, сетевые
// сбои оборачиваются в ErrUnavailable. Повторных попыток нет, ошибка
// логируется один раз на границе клиента.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/fastvisa/internal/lib/sl"
)

const (
	testSuffix   = "/TEST"
	maxErrorBody = 512
)

// Client — клиент внешнего API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	metrics    *Metrics
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задаёт собственный *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics включает сбор метрик.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// BaseURL строит адрес API: вне production к нему добавляется суффикс /TEST.
func BaseURL(apiURL string, production bool) string {
	base := strings.TrimSuffix(apiURL, "/")
	if !production {
		base += testSuffix
	}
	return base
}

// New создаёт клиент для уже вычисленного базового адреса.
func New(baseURL string, log *slog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("apiclient: base url is required")
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do выполняет запрос и декодирует ответ в out, если out не nil.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	log := c.log.With(sl.Op(op), slog.String("method", method), slog.String("path", path))

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		log.Error("failed to build request", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(op, "network", time.Since(start).Seconds())
		log.Error("request failed", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.metrics.observe(op, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		log.Error("unexpected status", slog.Int("status", resp.StatusCode), sl.Err(apiErr))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		log.Error("failed to decode response", sl.Err(err))
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
