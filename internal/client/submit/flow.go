// Package submit drives a claim submission from the client side: fingerprint, submit, classify, acknowledge
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"ipclaim/internal/core/fingerprint"
	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/platform/logger"
	"ipclaim/internal/services/claims/domain"
)

const (
	// DefaultEndpoint is the submission endpoint of a local api
	DefaultEndpoint = "http://localhost:4000/api/create-claim"

	defaultTimeout = 15 * time.Second
	defaultUA      = "ipclaim-cli"
	maxResponse    = 1 << 20
)

// Sentinel classes of failure; match with errors.Is
var (
	// ErrValidation means the input was rejected before or by the server; nothing was stored
	ErrValidation = errors.New("claim rejected")
	// ErrServer means the server answered with a failure
	ErrServer = errors.New("claim server error")
	// ErrOutcomeUnknown means no usable answer arrived; the claim may or may not be stored
	ErrOutcomeUnknown = errors.New("claim outcome unknown")
)

// Acknowledger records an accepted claim somewhere non-authoritative, typically on chain
type Acknowledger interface {
	Acknowledge(ctx context.Context, c domain.Claim) (tx string, err error)
}

// Options configures a Flow
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Identity   Identity
	Ack        Acknowledger
}

// Form is what the user typed
type Form struct {
	Title       string
	Description string
	Price       float64
}

// Kind tags a successful outcome
type Kind string

const (
	// KindAccepted means a new claim was stored
	KindAccepted Kind = "accepted"
	// KindDuplicate means the content was already claimed
	KindDuplicate Kind = "duplicate"
)

// Outcome is a classified submission result
type Outcome struct {
	Kind  Kind
	Claim domain.Claim

	// AckTx is the transaction hash of a successful acknowledgment
	AckTx string
	// AckWarning is set when the acknowledgment failed; the claim still stands
	AckWarning error
}

// Flow submits claims to the api
type Flow struct {
	opts Options
	http *http.Client
	log  logger.Logger
}

// New creates a Flow with sane defaults
func New(o Options) *Flow {
	if strings.TrimSpace(o.Endpoint) == "" {
		o.Endpoint = DefaultEndpoint
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Identity == nil {
		o.Identity = Anonymous
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Flow{opts: o, http: hc, log: *logger.Named("submit")}
}

// Submit fingerprints f, submits it and, when accepted from a connected wallet, acknowledges it
func (fl *Flow) Submit(ctx context.Context, w WalletState, f Form) (Outcome, error) {
	title := strings.TrimSpace(f.Title)
	desc := strings.TrimSpace(f.Description)
	if title == "" || desc == "" {
		return Outcome{}, perr.WithField(perr.Wrap(ErrValidation, perr.ErrorCodeValidation, "title and description are required"), firstEmpty(title))
	}

	in := domain.SubmitInput{
		Title:       title,
		Description: desc,
		Price:       domain.CoercePrice(f.Price),
		Owner:       resolveOwner(ctx, w, fl.opts.Identity),
		ContentHash: fingerprint.Of(title, desc),
	}

	res, err := fl.post(ctx, in)
	if err != nil {
		return Outcome{}, err
	}
	if res.IsDuplicate() {
		fl.log.Info().Str("content_hash", in.ContentHash).Str("claim_id", res.Duplicate.ID).Msg("content already claimed")
		return Outcome{Kind: KindDuplicate, Claim: *res.Duplicate}, nil
	}

	out := Outcome{Kind: KindAccepted, Claim: *res.Claim}
	if fl.opts.Ack == nil || !w.Connected {
		return out, nil
	}
	tx, err := fl.opts.Ack.Acknowledge(ctx, out.Claim)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("claim_id", out.Claim.ID).Msg("on-chain acknowledgment failed, claim is stored")
		out.AckWarning = err
		return out, nil
	}
	out.AckTx = tx
	return out, nil
}

func (fl *Flow) post(ctx context.Context, in domain.SubmitInput) (domain.Result, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return domain.Result{}, perr.Wrap(err, perr.ErrorCodeJSON, "encode claim")
	}

	ctx, cancel := context.WithTimeout(ctx, fl.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fl.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Result{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "bad endpoint %q", fl.opts.Endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fl.opts.UserAgent)

	start := time.Now()
	resp, err := fl.http.Do(req)
	if err != nil {
		fl.log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("claim submission did not complete")
		return domain.Result{}, perr.Wrap(errors.Join(ErrOutcomeUnknown, err), perr.ErrorCodeUnavailable, "no answer from claim service")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return domain.Result{}, perr.Wrap(errors.Join(ErrOutcomeUnknown, err), perr.ErrorCodeUnavailable, "claim answer cut short")
	}
	fl.log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("claim service answered")
	return classify(resp.StatusCode, raw)
}

// answer is the union of bodies the claim endpoint writes
type answer struct {
	Error     *string       `json:"error"`
	Claim     *domain.Claim `json:"claim"`
	Duplicate *domain.Claim `json:"duplicate"`
}

func classify(status int, raw []byte) (domain.Result, error) {
	var a answer
	decodeErr := json.Unmarshal(raw, &a)
	msg := http.StatusText(status)
	if decodeErr == nil && a.Error != nil && *a.Error != "" {
		msg = *a.Error
	}

	switch {
	case status == http.StatusOK:
		switch {
		case decodeErr != nil:
			return domain.Result{}, perr.Wrap(errors.Join(ErrOutcomeUnknown, decodeErr), perr.ErrorCodeJSON, "unreadable claim answer")
		case a.Duplicate != nil:
			return domain.DuplicateOf(*a.Duplicate), nil
		case a.Claim != nil:
			return domain.Accepted(*a.Claim), nil
		}
		return domain.Result{}, perr.Wrap(ErrOutcomeUnknown, perr.ErrorCodeUnknown, "claim answer carried neither claim nor duplicate")
	case status == http.StatusBadRequest:
		return domain.Result{}, perr.Wrap(ErrValidation, perr.ErrorCodeValidation, msg)
	case status == http.StatusTooManyRequests:
		return domain.Result{}, perr.Wrap(ErrServer, perr.ErrorCodeTooManyRequests, msg)
	case status >= 500 && decodeErr != nil:
		// a gateway answered, not the claim service
		return domain.Result{}, perr.Wrap(ErrOutcomeUnknown, perr.ErrorCodeUnavailable, msg)
	default:
		return domain.Result{}, perr.Wrap(ErrServer, perr.ErrorCodeDB, msg)
	}
}

func firstEmpty(title string) string {
	if title == "" {
		return "title"
	}
	return "description"
}
