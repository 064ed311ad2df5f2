// Package chain submits on-chain acknowledgments of accepted claims through a signing relay
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/platform/logger"
	"ipclaim/internal/services/claims/domain"

	"github.com/google/uuid"
)

const (
	// PayloadType is the transaction kind understood by the relay
	PayloadType = "entry_function_payload"
	// DefaultFunction is the move entry function that records a claim
	DefaultFunction = "0x1::example::claim_ip"

	defaultTimeout   = 30 * time.Second
	defaultUA        = "ipclaim-ack"
	defaultMaxRetry  = 2
	defaultRetryBase = 500 * time.Millisecond
)

// ackNamespace scopes idempotency keys so the same claim always maps to the same key
var ackNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ipclaim:ack"))

// Options configures the Relay
type Options struct {
	URL       string
	Function  string
	Token     string
	UserAgent string
	Timeout   time.Duration

	// Retry config for transient relay responses
	MaxRetries int
	RetryBase  time.Duration
}

// Payload is the entry function call submitted for signing
type Payload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// Receipt is the relay answer for a submitted transaction
type Receipt struct {
	Hash string `json:"hash"`
}

// Relay posts acknowledgment payloads to a relay that signs and submits them
type Relay struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(context.Context, time.Duration) error
}

// NewRelay creates a Relay with sane defaults
func NewRelay(o Options) *Relay {
	if strings.TrimSpace(o.Function) == "" {
		o.Function = DefaultFunction
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Relay{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("chain"),
		sleep: sleepCtx,
	}
}

// PayloadFor builds the entry function call for c
func PayloadFor(function string, c domain.Claim) Payload {
	return Payload{
		Type:          PayloadType,
		Function:      function,
		TypeArguments: []string{},
		Arguments:     []any{c.ID, c.Title, c.Description, c.Price},
	}
}

// IdempotencyKey derives a stable key for acknowledging c
func IdempotencyKey(c domain.Claim) string {
	return uuid.NewSHA1(ackNamespace, []byte(c.ID)).String()
}

// Acknowledge submits c and returns the transaction hash
func (r *Relay) Acknowledge(ctx context.Context, c domain.Claim) (string, error) {
	if strings.TrimSpace(r.opts.URL) == "" {
		return "", perr.New(perr.ErrorCodeUnavailable, "chain relay url not configured")
	}
	if c.ID == "" {
		return "", perr.New(perr.ErrorCodeInvalidArgument, "claim id required for acknowledgment")
	}
	body, err := json.Marshal(PayloadFor(r.opts.Function, c))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "encode chain payload")
	}
	key := IdempotencyKey(c)

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.URL, bytes.NewReader(body))
		if err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "chain relay new request failed")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", r.opts.UserAgent)
		req.Header.Set("Idempotency-Key", key)
		if r.opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+r.opts.Token)
		}

		resp, err := r.http.Do(req)
		if err != nil {
			if ctx.Err() != nil || attempts >= r.opts.MaxRetries {
				return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "chain relay do failed")
			}
			if err := r.retry(ctx, attempts, "transport error"); err != nil {
				return "", err
			}
			attempts++
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			var rc Receipt
			err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&rc)
			_ = drainAndClose(resp.Body)
			if err != nil {
				return "", perr.Wrap(err, perr.ErrorCodeJSON, "decode chain receipt")
			}
			if rc.Hash == "" {
				return "", perr.New(perr.ErrorCodeUnknown, "chain relay returned no transaction hash")
			}
			r.log.Debug().Str("claim_id", c.ID).Str("tx", rc.Hash).Int("attempt", attempts).Msg("chain ack submitted")
			return rc.Hash, nil
		case transient(resp.StatusCode) && attempts < r.opts.MaxRetries:
			_ = drainAndClose(resp.Body)
			if err := r.retry(ctx, attempts, "transient status "+http.StatusText(resp.StatusCode)); err != nil {
				return "", err
			}
			attempts++
			continue
		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return "", &StatusError{
				Status: resp.StatusCode,
				Body:   string(tail),
				Err:    perr.Newf(codeFor(resp.StatusCode), "chain relay status %d", resp.StatusCode),
			}
		}
	}
}

func (r *Relay) retry(ctx context.Context, attempt int, why string) error {
	back := r.backoff(attempt)
	r.log.Warn().Dur("retry_in", back).Int("attempt", attempt).Str("reason", why).Msg("chain relay retrying")
	return r.sleep(ctx, back)
}

// sleepCtx waits d, returning early with ctx's error when it is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Relay) backoff(attempt int) time.Duration {
	d := r.opts.RetryBase << uint(attempt)
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	return d
}
