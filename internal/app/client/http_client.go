package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"faithkeeper/internal/app/client/config"
	"faithkeeper/internal/app/client/localstore"
)

// Deliverer отправка локальных записей на сервер. Ошибка любого метода
// означает, что запись нужно оставить до следующего прохода.
type Deliverer interface {
	SubmitJournalEntry(ctx context.Context, e localstore.JournalEntry) error
	SubmitPrayerRequest(ctx context.Context, p localstore.PrayerRequest) error
	SubmitCheckin(ctx context.Context, c localstore.DailyCheckin) error
	DispatchAction(ctx context.Context, a localstore.PendingAction) error
}

const idempotencyHeader = "Idempotency-Key"

type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return newHTTPClient(client, cfg.BaseURL(), log)
}

func newHTTPClient(client *http.Client, baseURL string, log *slog.Logger) *httpClient {
	return &httpClient{
		client:    client,
		log:       log.With("component", "http_client"),
		baseURL:   baseURL,
		userAgent: "Faithkeeper-Client/1.0",
	}
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	return nil
}

// SubmitJournalEntry отправляет запись дневника
func (h *httpClient) SubmitJournalEntry(ctx context.Context, e localstore.JournalEntry) error {
	return h.submit(ctx, "/api/v1/journal-entries", e, nil)
}

// SubmitPrayerRequest отправляет молитвенную просьбу
func (h *httpClient) SubmitPrayerRequest(ctx context.Context, p localstore.PrayerRequest) error {
	return h.submit(ctx, "/api/v1/prayer-requests", p, nil)
}

// SubmitCheckin отправляет ежедневную отметку
func (h *httpClient) SubmitCheckin(ctx context.Context, c localstore.DailyCheckin) error {
	return h.submit(ctx, "/api/v1/checkins", c, nil)
}

// DispatchAction отправляет действие исходящей очереди на маршрут его типа.
// Тело запроса - непрозрачная нагрузка действия, id действия уходит
// ключом идемпотентности, чтобы повторная доставка не дублировалась.
func (h *httpClient) DispatchAction(ctx context.Context, a localstore.PendingAction) error {
	payload := a.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	header := http.Header{}
	if a.ID != "" {
		header.Set(idempotencyHeader, a.ID)
	}
	return h.submit(ctx, "/api/v1/actions/"+url.PathEscape(a.ActionType), payload, header)
}

// FetchDevotional загружает материал дня с сервера
func (h *httpClient) FetchDevotional(ctx context.Context, date string) (localstore.Devotional, error) {
	var d localstore.Devotional

	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/devotionals/"+url.PathEscape(date), nil, nil)
	if err != nil {
		return d, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return d, fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return d, fmt.Errorf("ошибка разбора ответа: %w", err)
	}
	d.ID = d.Date
	return d, nil
}

func (h *httpClient) submit(ctx context.Context, path string, body interface{}, header http.Header) error {
	resp, err := h.doRequest(ctx, http.MethodPost, path, body, header)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return h.parseResponse(resp)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}, header http.Header) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

// parseResponse любой 2xx считается успехом
func (h *httpClient) parseResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: ошибка чтения ответа: %w", ErrDelivery, err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"body", string(body),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: статус %d: %s", ErrDelivery, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: статус %d", ErrDelivery, resp.StatusCode)
	}

	return nil
}
