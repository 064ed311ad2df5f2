package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "ipclaim/internal/platform/errors"
	pnet "ipclaim/internal/platform/net"
)

// Envelope is the body of every response that is not Raw
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// JSON writes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is returned by handlers instead of writing to the ResponseWriter
// a Body that is an error decides the status itself
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
	// Raw skips the envelope
	Raw bool
}

// OK is a 200 with data in the envelope
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// NoContent is a bodyless 204
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Raw is status with body written as is
func Raw(status int, body any) Response { return Response{Status: status, Body: body, Raw: true} }

// Error is err mapped through perr to its status and envelope
func Error(err error) Response { return Response{Body: err} }

// Handle turns a return style handler into a HandlerFunc
func Handle(h func(*stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}

	switch body := resp.Body.(type) {
	case error:
		status = perr.HTTPStatus(body)
		wire := perr.WireFrom(body)
		env := envelope(r, status)
		env.Code, env.Error = wire.Code, wire.Message
		JSON(w, status, env)
	default:
		switch {
		case status == stdhttp.StatusNoContent:
			w.WriteHeader(status)
		case resp.Raw:
			JSON(w, status, body)
		default:
			env := envelope(r, status)
			env.Data = body
			JSON(w, status, env)
		}
	}
}

func envelope(r *stdhttp.Request, status int) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
	}
}
