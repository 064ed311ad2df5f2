// Package http provides http transport for claims
package http

import (
	stdhttp "net/http"

	"ipclaim/internal/modkit/httpkit"
	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/services/claims/domain"
	svc "ipclaim/internal/services/claims/service"
)

// maxBody caps a submission body
const maxBody = 64 << 10

// Register mounts claims endpoints on the given router
// claim endpoints write bare bodies: {"error"}, {"duplicate"} or {"claim"}
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	r.Post("/", httpkit.Handle(h.submit))
	r.Get("/by-hash/{hash}", httpkit.Handle(h.byHash))
	r.Get("/{id}", httpkit.Handle(h.get))
}

// CompatPath is the single-purpose submission endpoint kept for existing clients
const CompatPath = "/api/create-claim"

// RegisterCompat mounts the submit handler at path
func RegisterCompat(r httpkit.Router, path string, s svc.Service) {
	h := &handlers{svc: s}
	r.Post(path, httpkit.Handle(h.submit))
}

type handlers struct{ svc svc.Service }

// ClaimBody wraps an accepted claim
type ClaimBody struct {
	Claim domain.Claim `json:"claim"`
}

// DuplicateBody wraps the existing claim for a fingerprint
type DuplicateBody struct {
	Duplicate domain.Claim `json:"duplicate"`
}

// swagger:route POST /claims Claims claimsSubmit
// @Summary Submit a claim; returns the earlier claim when the fingerprint already exists
// @Tags Claims
// @Accept json
// @Produce json
// @Param payload body domain.SubmitInput true "Claim"
// @Success 200 {object} domain.Result "claim or duplicate"
// @Failure 400 {object} domain.ErrorBody "Missing fields"
// @Failure 500 {object} domain.ErrorBody "Database error or Insert failed"
// @Router /claims [post]
func (h *handlers) submit(r *stdhttp.Request) httpkit.Response {
	in, err := httpkit.ParseJSON[domain.SubmitInput](r, httpkit.JSONOptions{
		MaxBytes:       maxBody,
		AllowEmptyBody: true,
	})
	if err != nil {
		return errorBody(err)
	}
	res, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		return errorBody(err)
	}
	if res.IsDuplicate() {
		return httpkit.Raw(stdhttp.StatusOK, DuplicateBody{Duplicate: *res.Duplicate})
	}
	return httpkit.Raw(stdhttp.StatusOK, ClaimBody{Claim: *res.Claim})
}

// swagger:route GET /claims/by-hash/{hash} Claims claimsByHash
// @Summary Earliest claim for a content fingerprint
// @Tags Claims
// @Produce json
// @Param hash path string true "sha256 hex fingerprint"
// @Success 200 {object} DuplicateBody "existing claim"
// @Failure 400 {object} domain.ErrorBody "Invalid content_hash"
// @Failure 404 {object} domain.ErrorBody "not found"
// @Router /claims/by-hash/{hash} [get]
func (h *handlers) byHash(r *stdhttp.Request) httpkit.Response {
	c, err := h.svc.Lookup(r.Context(), httpkit.Param(r, "hash"))
	if err != nil {
		return errorBody(err)
	}
	return httpkit.Raw(stdhttp.StatusOK, DuplicateBody{Duplicate: c})
}

// swagger:route GET /claims/{id} Claims claimsGet
// @Summary Claim by id
// @Tags Claims
// @Produce json
// @Param id path string true "claim id"
// @Success 200 {object} ClaimBody "claim"
// @Failure 404 {object} domain.ErrorBody "not found"
// @Router /claims/{id} [get]
func (h *handlers) get(r *stdhttp.Request) httpkit.Response {
	c, err := h.svc.Get(r.Context(), httpkit.Param(r, "id"))
	if err != nil {
		return errorBody(err)
	}
	return httpkit.Raw(stdhttp.StatusOK, ClaimBody{Claim: c})
}

// errorBody maps err to its status and a bare {"error": message}
func errorBody(err error) httpkit.Response {
	status, wire := perr.HTTP(err)
	msg := wire.Message
	if _, ok := perr.As(err); !ok {
		msg = domain.MsgDatabaseError
	}
	return httpkit.Raw(status, domain.ErrorBody{Error: msg})
}
