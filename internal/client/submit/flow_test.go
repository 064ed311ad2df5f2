package submit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ipclaim/internal/core/fingerprint"
	perr "ipclaim/internal/platform/errors"
	phttp "ipclaim/internal/platform/net/http"
	"ipclaim/internal/services/claims/domain"
	claimshttp "ipclaim/internal/services/claims/http"
	"ipclaim/internal/services/claims/repo"
	"ipclaim/internal/services/claims/service"

	"github.com/go-chi/chi/v5"
)

// liveServer runs the real claims handler over a memory store
func liveServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := chi.NewRouter()
	claimshttp.RegisterCompat(phttp.AdaptChi(mux), claimshttp.CompatPath, service.New(repo.NewMemory()))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type ackFunc func(ctx context.Context, c domain.Claim) (string, error)

func (f ackFunc) Acknowledge(ctx context.Context, c domain.Claim) (string, error) { return f(ctx, c) }

var alice = WalletState{Connected: true, Account: "alice"}

func TestFlow_AcceptedThenDuplicate(t *testing.T) {
	srv := liveServer(t)
	fl := New(Options{Endpoint: srv.URL + claimshttp.CompatPath})

	out, err := fl.Submit(context.Background(), alice, Form{Title: " A ", Description: "B\n", Price: 10})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Kind != KindAccepted || out.Claim.ID == "" {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Claim.ContentHash != fingerprint.Of("A", "B") || out.Claim.Title != "A" || out.Claim.Price != 10 {
		t.Fatalf("claim = %+v", out.Claim)
	}

	again, err := New(Options{Endpoint: srv.URL + claimshttp.CompatPath}).
		Submit(context.Background(), WalletState{Connected: true, Account: "bob"}, Form{Title: "A", Description: "B"})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if again.Kind != KindDuplicate || again.Claim.ID != out.Claim.ID || again.Claim.OwnerOr("") != "alice" {
		t.Fatalf("duplicate = %+v", again)
	}
}

func TestFlow_LocalValidation(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls.Add(1) }))
	defer srv.Close()

	fl := New(Options{Endpoint: srv.URL})
	for _, f := range []Form{{Title: "  ", Description: "B"}, {Title: "A", Description: ""}} {
		_, err := fl.Submit(context.Background(), WalletState{}, f)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%+v: err = %v", f, err)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("server should not be called for blank input")
	}
}

func TestFlow_OwnerResolution(t *testing.T) {
	var (
		mu     sync.Mutex
		owners []*string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in domain.SubmitInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		mu.Lock()
		owners = append(owners, in.Owner)
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"claim": domain.Claim{ID: "x", Owner: in.Owner}})
	}))
	defer srv.Close()

	ctx := context.Background()
	form := Form{Title: "A", Description: "B"}

	_, _ = New(Options{Endpoint: srv.URL}).Submit(ctx, WalletState{}, form)
	_, _ = New(Options{Endpoint: srv.URL, Identity: StaticIdentity("google:123")}).Submit(ctx, WalletState{}, form)
	_, _ = New(Options{Endpoint: srv.URL, Identity: StaticIdentity("google:123")}).Submit(ctx, alice, form)
	_, _ = New(Options{Endpoint: srv.URL}).Submit(ctx, WalletState{Connected: false, Account: "stale"}, form)

	mu.Lock()
	defer mu.Unlock()
	if len(owners) != 4 {
		t.Fatalf("calls = %d", len(owners))
	}
	if owners[0] != nil || owners[3] != nil {
		t.Fatalf("anonymous submissions should send a null owner")
	}
	if *owners[1] != "google:123" || *owners[2] != "alice" {
		t.Fatalf("owners = %q %q", *owners[1], *owners[2])
	}
}

func TestFlow_ServerValidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Missing fields"}`))
	}))
	defer srv.Close()

	_, err := New(Options{Endpoint: srv.URL}).Submit(context.Background(), WalletState{}, Form{Title: "A", Description: "B"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	if w := perr.WireFrom(err); w.Message != "Missing fields" {
		t.Fatalf("message = %q", w.Message)
	}
}

func TestFlow_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Insert failed"}`))
	}))
	defer srv.Close()

	_, err := New(Options{Endpoint: srv.URL}).Submit(context.Background(), WalletState{}, Form{Title: "A", Description: "B"})
	if !errors.Is(err, ErrServer) || errors.Is(err, ErrOutcomeUnknown) {
		t.Fatalf("err = %v", err)
	}
}

func TestFlow_OutcomeUnknown(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer gateway.Close()

	garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"claim":`))
	}))
	defer garbled.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer empty.Close()

	tests := []struct {
		name    string
		url     string
		timeout time.Duration
	}{
		{"timeout", slow.URL, 50 * time.Millisecond},
		{"connection refused", "http://127.0.0.1:1", time.Second},
		{"gateway page", gateway.URL, time.Second},
		{"truncated json", garbled.URL, time.Second},
		{"empty answer", empty.URL, time.Second},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Options{Endpoint: tc.url, Timeout: tc.timeout}).
				Submit(context.Background(), WalletState{}, Form{Title: "A", Description: "B"})
			if !errors.Is(err, ErrOutcomeUnknown) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestFlow_AckSuccess(t *testing.T) {
	srv := liveServer(t)
	var acked domain.Claim
	fl := New(Options{
		Endpoint: srv.URL + claimshttp.CompatPath,
		Ack: ackFunc(func(_ context.Context, c domain.Claim) (string, error) {
			acked = c
			return "0xabc", nil
		}),
	})

	out, err := fl.Submit(context.Background(), alice, Form{Title: "A", Description: "B", Price: 3})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.AckTx != "0xabc" || out.AckWarning != nil {
		t.Fatalf("outcome = %+v", out)
	}
	if acked.ID != out.Claim.ID || acked.Price != 3 {
		t.Fatalf("acked = %+v", acked)
	}
}

func TestFlow_AckFailureIsOnlyAWarning(t *testing.T) {
	srv := liveServer(t)
	boom := errors.New("relay down")
	fl := New(Options{
		Endpoint: srv.URL + claimshttp.CompatPath,
		Ack:      ackFunc(func(context.Context, domain.Claim) (string, error) { return "", boom }),
	})

	out, err := fl.Submit(context.Background(), alice, Form{Title: "A", Description: "B"})
	if err != nil {
		t.Fatalf("ack failure must not fail the submission: %v", err)
	}
	if out.Kind != KindAccepted || !errors.Is(out.AckWarning, boom) {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestFlow_AckSkipped(t *testing.T) {
	srv := liveServer(t)
	var calls atomic.Int32
	ack := ackFunc(func(context.Context, domain.Claim) (string, error) {
		calls.Add(1)
		return "0x1", nil
	})
	fl := New(Options{Endpoint: srv.URL + claimshttp.CompatPath, Ack: ack})

	// no wallet
	if _, err := fl.Submit(context.Background(), WalletState{}, Form{Title: "A", Description: "B"}); err != nil {
		t.Fatal(err)
	}
	// duplicates are never acknowledged
	if _, err := fl.Submit(context.Background(), alice, Form{Title: "A", Description: "B"}); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 0 {
		t.Fatalf("ack calls = %d", calls.Load())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusBadRequest, `{"error":"Missing fields"}`, ErrValidation},
		{http.StatusTooManyRequests, `{"error":"Too many requests"}`, ErrServer},
		{http.StatusInternalServerError, `{"error":"Database error"}`, ErrServer},
		{http.StatusServiceUnavailable, `upstream`, ErrOutcomeUnknown},
		{http.StatusNotFound, ``, ErrServer},
	}
	for _, tc := range tests {
		if _, err := classify(tc.status, []byte(tc.body)); !errors.Is(err, tc.want) {
			t.Fatalf("%d %s: err = %v, want %v", tc.status, tc.body, err, tc.want)
		}
	}
}
