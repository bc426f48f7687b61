package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Caller é o caminho único de rede dos adapters: espaçamento mínimo entre
// chamadas (rate limit por instância) + retry com backoff exponencial limitado.
// 429 respeita o Retry-After quando o provedor manda; 5xx e falha de rede
// fazem backoff puro. Depois de MaxRetries o erro sobe para quem chamou.
type Caller struct {
	HTTP       *http.Client
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	minInterval time.Duration
	mu          sync.Mutex
	lastCall    time.Time
}

func NewCaller(minInterval time.Duration) *Caller {
	return &Caller{
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		MaxRetries:  3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		minInterval: minInterval,
	}
}

// Do executa a request com rate limit e retry. O build é uma função porque
// o body precisa ser recriado a cada tentativa.
func (c *Caller) Do(ctx context.Context, build func() (*http.Request, error)) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := c.waitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := build()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		resp, err := c.HTTP.Do(req)
		if err != nil {
			// Falha de rede: transitória até provar o contrário
			if attempt < c.MaxRetries {
				if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, "")); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			return nil, fmt.Errorf("falha de rede após %d tentativas: %w", attempt+1, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return body, nil
		}

		retryable := resp.StatusCode == http.StatusTooManyRequests ||
			(resp.StatusCode >= 500 && resp.StatusCode <= 599)
		if retryable && attempt < c.MaxRetries {
			if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, resp.Header.Get("Retry-After"))); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		return nil, fmt.Errorf("api respondeu status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}
}

// waitTurn segura a chamada até respeitar o intervalo mínimo da instância.
func (c *Caller) waitTurn(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}
	c.mu.Lock()
	wait := c.minInterval - time.Since(c.lastCall)
	if wait < 0 {
		wait = 0
	}
	c.lastCall = time.Now().Add(wait)
	c.mu.Unlock()

	return sleepContext(ctx, wait)
}

func (c *Caller) retryDelay(attempt int, retryAfterHeader string) time.Duration {
	if hint := parseRetryAfterSeconds(retryAfterHeader); hint > 0 {
		if hint > c.MaxDelay {
			return c.MaxDelay
		}
		return hint
	}
	delay := c.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

func parseRetryAfterSeconds(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
