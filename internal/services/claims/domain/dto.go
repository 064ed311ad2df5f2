package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SubmitInput is the submission payload accepted at the HTTP boundary
// field lengths are bounded only by the request body cap
type SubmitInput struct {
	Title       string  `json:"title" example:"My Song"`
	Description string  `json:"description" example:"A short melody"`
	Price       Price   `json:"price" swaggertype:"number" example:"10"`
	Owner       *string `json:"owner" example:"0x1a2b"`
	ContentHash string  `json:"content_hash" example:"85885505404fbf0afe5c41fa957212e8553d012b56386197b03eaed362dc5f3e"`
}

// Price is a non-negative amount that tolerates loose JSON input
// numbers and numeric strings are accepted; anything else, negatives and non-finite values become 0
type Price float64

// UnmarshalJSON implements json.Unmarshaler and never fails
func (p *Price) UnmarshalJSON(b []byte) error {
	*p = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f = v
	} else if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	*p = CoercePrice(f)
	return nil
}

// CoercePrice clamps f into a valid stored price
func CoercePrice(f float64) Price {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return Price(f)
}

// LookupInput addresses a claim by fingerprint
type LookupInput struct {
	ContentHash string `json:"content_hash"`
}

// ErrorBody is the error shape returned by claim endpoints
type ErrorBody struct {
	Error string `json:"error" example:"Missing fields"`
}
