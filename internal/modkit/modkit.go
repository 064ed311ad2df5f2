// Package modkit describes API modules and mounts them
package modkit

import (
	"reflect"

	"ipclaim/internal/modkit/httpkit"
	"ipclaim/internal/modkit/repokit"
	"ipclaim/internal/platform/config"
	"ipclaim/internal/platform/logger"
	"ipclaim/internal/platform/store"
)

// Deps are the shared handles modules are built from; PG and CH may be nil
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// Module is a unit of the API with its own routes and ports
type Module interface {
	Name() string
	MountRoutes(r httpkit.Router)
	// Ports is whatever the module offers other modules and main, nil for nothing
	Ports() any
}

// PortsOf finds a T among m's ports: the ports value itself, else its first exported field holding a T
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < rv.NumField(); i++ {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		if v, ok := rv.Field(i).Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}
