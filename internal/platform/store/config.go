package store

import "time"

// Config selects and configures the backends Open brings up
type Config struct {
	// AppName is reported to postgres as application_name
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures the claim store connection
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds boot pings, default 6 (about 8s of backoff)
	ConnectRetries int
	// PingTimeout bounds each boot ping, default 5s
	PingTimeout time.Duration
}

// CHConfig configures the submission analytics connection
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

func (c PGConfig) retries() int {
	if c.ConnectRetries > 0 {
		return c.ConnectRetries
	}
	return 6
}

func (c PGConfig) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return 5 * time.Second
}

func (c PGConfig) slow() time.Duration {
	if c.SlowQueryMs <= 0 {
		return 0
	}
	return time.Duration(c.SlowQueryMs) * time.Millisecond
}
