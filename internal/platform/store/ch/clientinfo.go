package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type product = struct{ Name, Version string }

// clientInfo labels the connection so system.query_log shows which process and role sent a query
func clientInfo(name, tag string) clickhouse.ClientInfo {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "ipclaim"
	}
	host, _ := os.Hostname()
	info := clickhouse.ClientInfo{Products: []product{
		{Name: name, Version: revision()},
		{Name: "go", Version: runtime.Version()},
	}}
	if tag = strings.TrimSpace(tag); tag != "" {
		info.Products = append(info.Products, product{Name: "role", Version: tag})
	}
	if host != "" {
		info.Products = append(info.Products, product{Name: "host", Version: host})
	}
	return info
}

// revision is the short vcs commit baked in by the go toolchain, or "dev"
func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "dev"
}
