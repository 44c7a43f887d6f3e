// Package client предоставляет Go SDK для HTTP API WorkMatch.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/workmatch/workmatch-backend/internal/dto"
)

// ErrSessionExpired возвращается, когда refresh токен больше не действует.
// Вызывающая сторона должна отправить пользователя на повторный вход.
var ErrSessionExpired = errors.New("client: сессия истекла, требуется повторный вход")

const defaultTimeout = 30 * time.Second

// retriedKey помечает запрос, который уже прошёл один цикл refresh+retry.
// Маркер живёт в контексте запроса, поэтому параллельные запросы
// не влияют друг на друга.
type retriedKey struct{}

// APIError ошибка уровня API в едином конверте ответа.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: api ошибка %d %s: %s", e.Status, e.Code, e.Message)
}

// Session хранит пару токенов клиента. Единственное место записи токенов:
// Login, Refresh, Logout и SetTokens.
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// Tokens возвращает текущую пару токенов.
func (s *Session) Tokens() (access, refresh string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *Session) set(access, refresh string) {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()
}

func (s *Session) clear() {
	s.set("", "")
}

// Client клиент HTTP API.
type Client struct {
	http    *resty.Client
	session *Session
}

// Option настраивает клиент при создании.
type Option func(*Client)

// WithTimeout переопределяет таймаут запросов.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithHTTPClient подменяет транспорт (для тестов).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc).SetBaseURL(c.http.BaseURL)
	}
}

// New создаёт клиент API с базовым URL вида http://host:port.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    resty.New().SetBaseURL(baseURL).SetTimeout(defaultTimeout),
		session: &Session{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session возвращает хранилище токенов клиента.
func (c *Client) Session() *Session {
	return c.session
}

// SetTokens устанавливает пару токенов (например, восстановленную из хранилища).
func (c *Client) SetTokens(access, refresh string) {
	c.session.set(access, refresh)
}

// do выполняет запрос с подстановкой access токена и единственным
// циклом refresh+retry при 401. Повторный 401 сбрасывает сессию.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	access, _ := c.session.Tokens()
	if access != "" {
		req.SetHeader("Authorization", "Bearer "+access)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("client: запрос %s %s: %w", method, path, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && access != "" {
		if ctx.Value(retriedKey{}) != nil {
			// Уже был один refresh+retry: сессия безнадёжна.
			c.session.clear()
			return ErrSessionExpired
		}

		if err := c.refreshSession(ctx); err != nil {
			c.session.clear()
			return ErrSessionExpired
		}

		return c.do(context.WithValue(ctx, retriedKey{}, true), method, path, body, out)
	}

	return decode(resp, out)
}

// refreshSession обновляет пару токенов по refresh токену.
func (c *Client) refreshSession(ctx context.Context) error {
	_, refresh := c.session.Tokens()
	if refresh == "" {
		return errors.New("client: refresh токен отсутствует")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(dto.RefreshRequest{RefreshToken: refresh}).
		Post("/api/auth/refresh")
	if err != nil {
		return fmt.Errorf("client: refresh: %w", err)
	}

	var auth dto.AuthResponse
	if err := decode(resp, &auth); err != nil {
		return err
	}

	c.session.set(auth.AccessToken, auth.RefreshToken)
	return nil
}

// decode разбирает единый конверт ответа и заполняет out из поля data.
func decode(resp *resty.Response, out interface{}) error {
	if resp.StatusCode() >= 400 {
		var envelope dto.ErrorEnvelope
		if err := json.Unmarshal(resp.Body(), &envelope); err != nil || envelope.Error.Code == "" {
			return &APIError{
				Status:  resp.StatusCode(),
				Code:    "UNKNOWN",
				Message: resp.Status(),
			}
		}
		return &APIError{
			Status:  resp.StatusCode(),
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("client: неожиданный формат ответа: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("client: не удалось разобрать data: %w", err)
	}
	return nil
}
