// Package http implements the transfer port on top of net/http.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"pagefetch/internal/domain"
)

// ClientConfig holds HTTP client configuration
type ClientConfig struct {
	Timeout             time.Duration
	UserAgent           string
	MaxRedirects        int
	StallMinBytesPerSec int64
	StallWindow         time.Duration
}

// DefaultConfig returns default HTTP client configuration
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout:             30 * time.Second,
		UserAgent:           "pagefetch/1.0",
		MaxRedirects:        10,
		StallMinBytesPerSec: 100,
		StallWindow:         10 * time.Second,
	}
}

// Client implements domain.Fetcher
type Client struct {
	client *http.Client
	config ClientConfig
}

// NewClient creates a new HTTP client. Redirects are followed up to
// MaxRedirects; the overall timeout is applied per transfer.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "pagefetch/1.0"
	}

	maxRedirects := config.MaxRedirects
	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Client{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
				}
				return nil
			},
		},
		config: config,
	}
}

// NewTransfer prepares a single GET of url. The returned handle owns a
// context bounded by the configured timeout and must be closed.
func (c *Client) NewTransfer(ctx context.Context, url string) (domain.Transfer, error) {
	parent, cancelCause := context.WithCancelCause(ctx)
	tctx, cancelTimeout := context.WithTimeoutCause(parent, c.config.Timeout, ErrTimeout)

	req, err := http.NewRequestWithContext(tctx, http.MethodGet, url, nil)
	if err != nil {
		cancelTimeout()
		cancelCause(nil)
		return nil, ErrRequestCreation(err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	return &transfer{
		client:        c.client,
		config:        c.config,
		req:           req,
		ctx:           tctx,
		cancelCause:   cancelCause,
		cancelTimeout: cancelTimeout,
	}, nil
}

type transfer struct {
	client        *http.Client
	config        ClientConfig
	req           *http.Request
	ctx           context.Context
	cancelCause   context.CancelCauseFunc
	cancelTimeout context.CancelFunc

	read      atomic.Int64
	used      bool
	closeOnce sync.Once
}

// Fetch performs the request and streams a 2xx body into w.
func (t *transfer) Fetch(w io.Writer) (int64, error) {
	if t.used {
		return 0, errTransferUsed
	}
	t.used = true

	stop := watchStall(t.ctx, t.cancelCause, &t.read, t.config.StallMinBytesPerSec, t.config.StallWindow)
	defer stop()

	resp, err := t.client.Do(t.req)
	if err != nil {
		return 0, t.classify(ErrHTTPRequest(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	n, err := io.Copy(w, &countingReader{r: resp.Body, n: &t.read})
	if err != nil {
		return n, t.classify(ErrReadResponse(err))
	}
	return n, nil
}

// classify surfaces the stall or timeout cause when the transfer context
// was cancelled by one of them.
func (t *transfer) classify(err error) error {
	cause := context.Cause(t.ctx)
	if errors.Is(cause, ErrStalled) || errors.Is(cause, ErrTimeout) {
		return fmt.Errorf("%w after %d bytes: %w", cause, t.read.Load(), err)
	}
	return err
}

// Close releases the transfer context. It is safe to call more than once.
func (t *transfer) Close() error {
	t.closeOnce.Do(func() {
		t.cancelTimeout()
		t.cancelCause(nil)
	})
	return nil
}
