package module

import (
	"time"

	"ipclaim/internal/platform/config"
)

// Store backends
const (
	StorePG     = "pg"
	StoreMemory = "memory"
)

// Options controls the claims module
type Options struct {
	Store       string
	Strict      bool
	VerifyHash  bool
	CacheTTL    time.Duration
	LockTimeout time.Duration
	RateRPS     float64
	RateBurst   int
	Record      bool
	RecordBatch int
	RecordFlush time.Duration
}

// FromConfig reads CLAIMS_* under the api scope, e.g. CORE_API_CLAIMS_STRICT
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CLAIMS_")
	return Options{
		Store:       c.MayEnum("STORE", StorePG, StorePG, StoreMemory),
		Strict:      c.MayBool("STRICT", false),
		VerifyHash:  c.MayBool("VERIFY_HASH", false),
		CacheTTL:    c.MayDuration("CACHE_TTL", 0),
		LockTimeout: c.MayDuration("LOCK_TIMEOUT", 5*time.Second),
		RateRPS:     c.MayFloat64("RATE_RPS", 0),
		RateBurst:   c.MayInt("RATE_BURST", 10),
		Record:      c.MayBool("RECORD", true),
		RecordBatch: c.MayInt("RECORD_BATCH", 256),
		RecordFlush: c.MayDuration("RECORD_FLUSH", 2*time.Second),
	}
}
