// Package api assembles the HTTP API from its modules
package api

import (
	"context"
	"errors"
	"time"

	"ipclaim/internal/platform/config"
	"ipclaim/internal/platform/logger"
	phttp "ipclaim/internal/platform/net/http"
	"ipclaim/internal/platform/store"

	"ipclaim/internal/modkit"
	"ipclaim/internal/modkit/httpkit"
	"ipclaim/internal/modkit/swaggerkit"

	metamod "ipclaim/internal/services/api/meta/module"
	claimsmod "ipclaim/internal/services/claims/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mounted is what Mount wired, kept for shutdown
type Mounted struct {
	Modules []modkit.Module
}

// Mount builds the modules from opt and mounts them on r
func Mount(r phttp.Router, opt Options) Mounted {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Store != nil {
		// keep typed nils out of the interface fields
		if opt.Store.PG != nil {
			deps.PG = opt.Store.PG
		}
		if opt.Store.CH != nil {
			deps.CH = opt.Store.CH
		}
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	claims := claimsmod.New(deps, claimsmod.FromConfig(opt.Config))
	mods := []modkit.Module{metamod.New(deps), claims}

	stack := httpkit.CommonStackWith(httpkit.StackOptions{
		CORSOrigins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		SlowRequest: opt.Config.MayDuration("SLOW_REQUEST", time.Second),
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	// existing clients post to /api/create-claim, outside the versioned tree
	r.Group(func(g httpkit.Router) {
		g.Use(stack...)
		claims.MountCompat(g)
	})

	return Mounted{Modules: mods}
}

// Close flushes background work of every module that has some
func (m Mounted) Close(ctx context.Context) error {
	var errs []error
	for _, mod := range m.Modules {
		if c, ok := modkit.PortsOf[claimsmod.Closer](mod); ok && c != nil {
			if err := c.Close(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
