// Package sms delivers verification codes through an HTTP SMS gateway.
package sms

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/takonote/verigate/internal/pkg/hash"
	"github.com/takonote/verigate/internal/pkg/idempotency"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerSignature = "X-Signature"

	retryBase    = 200 * time.Millisecond
	retryAttempt = 3

	// dedupeTTL covers the shortest resend window, so a retried request
	// cannot deliver the same message twice while a fresh code would not
	// have been issued yet.
	dedupeTTL = 30 * time.Second
)

type payload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Gateway posts signed JSON messages to an external SMS provider. Deliveries
// are deduplicated per receiver and message body, and transient failures are
// retried with capped exponential backoff.
type Gateway struct {
	client *http.Client
	url    string
	secret []byte
	idem   idempotency.Idempotency
	ins    instrument.Instrumentation
}

type Config struct {
	Client *http.Client
	URL    string
	Secret []byte
	Idem   idempotency.Idempotency
	Ins    instrument.Instrumentation
}

func New(cfg Config) *Gateway {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Gateway{
		client: client,
		url:    cfg.URL,
		secret: cfg.Secret,
		idem:   cfg.Idem,
		ins:    cfg.Ins,
	}
}

func (g *Gateway) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return g.ins.Tracer("verification.outbound.sms").Start(ctx, name)
}

func dedupeKey(receiver, message string) string {
	sum := sha256.Sum256([]byte(message))
	return "sms:" + receiver + ":" + hex.EncodeToString(sum[:8])
}

func (g *Gateway) Send(ctx context.Context, receiver, message string) (err error) {
	ctx, span := g.startSpan(ctx, "Send")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	err = g.idem.Exec(ctx, dedupeKey(receiver, message), func(ctx context.Context) error {
		return g.deliver(ctx, receiver, message)
	}, idempotency.WithStateTTL(dedupeTTL))
	if errors.Is(err, idempotency.ErrAlreadyCompleted) {
		// The same code already went out; the caller's retry should succeed.
		return nil
	}

	return err
}

func (g *Gateway) deliver(ctx context.Context, receiver, message string) error {
	body, err := json.Marshal(payload{To: receiver, Message: message})
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(retryAttempt, retry.NewExponential(retryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(headerSignature, hash.SignHMACSHA256(g.secret, body))

		resp, err := g.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			slog.WarnContext(ctx, "sms gateway returned server error", "status", resp.StatusCode)
			return retry.RetryableError(fmt.Errorf("sms gateway status %d", resp.StatusCode))
		case resp.StatusCode >= http.StatusMultipleChoices:
			return fmt.Errorf("sms gateway status %d", resp.StatusCode)
		}

		return nil
	})
}
