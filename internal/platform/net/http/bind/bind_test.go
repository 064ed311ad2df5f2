package bind

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	perr "ipclaim/internal/platform/errors"
	"ipclaim/internal/platform/testkit"
)

type listing struct {
	Title string  `json:"title" validate:"required,min=2,max=8"`
	Price float64 `json:"price" validate:"gte=0"`
	Note  string  `json:"-"`
}

func post(body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	}
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON_Decodes(t *testing.T) {
	t.Parallel()

	got, err := ParseJSON[listing](post(`{"title":"Song","price":2.5}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Song" || got.Price != 2.5 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_JSONFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  *http.Request
		opts []JSONOptions
		msg  string
	}{
		{"empty body", post(""), nil, "empty body"},
		{"whitespace body", post("   "), nil, "invalid JSON: EOF"},
		{"truncated", post(`{"title":`), nil, "invalid JSON"},
		{"unknown field", post(`{"title":"Song","extra":1}`), nil, "invalid JSON"},
		{"trailing data", post(`{"title":"Song"} {}`), nil, "unexpected trailing data"},
		{"too large", post(`{"title":"Song","price":1}`), []JSONOptions{{MaxBytes: 8}}, "body exceeds 8 bytes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseJSON[listing](tc.req, tc.opts...)
			if !perr.IsCode(err, perr.ErrorCodeJSON) {
				t.Fatalf("code = %s (%v)", perr.CodeOf(err), err)
			}
			testkit.MustContain(t, err.Error(), tc.msg)
		})
	}
}

func TestParseJSON_EmptyBodyAllowed(t *testing.T) {
	t.Parallel()

	for _, req := range []*http.Request{
		post(""),
		httptest.NewRequest(http.MethodGet, "/", nil),
	} {
		got, err := ParseJSON[listing](req, JSONOptions{AllowEmptyBody: req.Method == http.MethodPost})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", req.Method, err)
		}
		if got != (listing{}) {
			t.Fatalf("%s: expected zero value, got %+v", req.Method, got)
		}
	}
}

func TestParseJSON_LooseOptions(t *testing.T) {
	t.Parallel()

	got, err := ParseJSON[listing](post(`{"title":"Song","extra":true}`), JSONOptions{})
	if err != nil {
		t.Fatalf("unknown fields should be tolerated: %v", err)
	}
	if got.Title != "Song" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseJSON_ValidationUsesJSONNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		body, field, msg string
	}{
		{`{"price":1}`, "title", "title is a required field"},
		{`{"title":"S"}`, "title", "title must be at least 2"},
		{`{"title":"Symphony No 9"}`, "title", "title must be at most 8"},
		{`{"title":"Song","price":-1}`, "price", "price must be 0 or greater"},
	}
	for _, tc := range cases {
		_, err := ParseJSON[listing](post(tc.body))
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.body, err)
		}
		if e.Field() != tc.field || e.Message() != tc.msg {
			t.Fatalf("%s: field=%q msg=%q", tc.body, e.Field(), e.Message())
		}
	}
}

func TestValidate_NonStructPasses(t *testing.T) {
	t.Parallel()

	if err := Validate(map[string]int{"a": 1}); err != nil {
		t.Fatalf("map: %v", err)
	}
	var nilListing *listing
	if err := Validate(nilListing); err != nil {
		t.Fatalf("nil pointer: %v", err)
	}
	if err := Validate(&listing{Title: "Song"}); err != nil {
		t.Fatalf("pointer to valid struct: %v", err)
	}
}

func TestJSONName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{`json:"title,omitempty"`: "title", `json:"-"`: "", ``: "Field"}
	for tag, want := range cases {
		f := reflect.StructField{Name: "Field", Tag: reflect.StructTag(tag)}
		if got := jsonName(f); got != want {
			t.Fatalf("jsonName(%s) = %q, want %q", tag, got, want)
		}
	}
}
