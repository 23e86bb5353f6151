// Package app bootstraps storage when the application starts.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// User-facing notices.
const (
	NoticeLimitedStorage = "Limited storage: persistent storage is not available. Some features may be limited."
	NoticeInitFailed     = "Initialization error: there was a problem initializing data storage. Please restart the application."
)

// Preparer opens storage, runs the legacy migration and seeds an empty
// catalog. catalog.Service implements it.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Status is the outcome of an initializer run.
type Status struct {
	Ready  bool   `json:"ready"`
	Notice string `json:"notice,omitempty"`
}

// Degraded reports whether the application runs without persistence.
func (s Status) Degraded() bool {
	return !s.Ready
}

// Initializer runs the startup sequence once per process.
type Initializer struct {
	// Probe checks that a storage engine is usable.
	Probe    func() error
	Preparer Preparer
	Log      *zap.Logger
}

// Run probes storage and prepares it. It never returns an error and never
// panics: failures are logged and reported through Status.Notice, and the
// application keeps running on seed data.
func (in *Initializer) Run(ctx context.Context) (st Status) {
	log := in.Log
	if log == nil {
		log = zap.NewNop()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("initialization panicked", zap.Any("panic", r))
			st = Status{Notice: NoticeInitFailed}
		}
	}()

	if in.Probe != nil {
		if err := in.Probe(); err != nil {
			log.Warn("persistent storage not supported, using fallback data", zap.Error(err))
			return Status{Notice: NoticeLimitedStorage}
		}
	}

	if in.Preparer == nil {
		log.Error("initialization failed", zap.Error(fmt.Errorf("no storage configured")))
		return Status{Notice: NoticeInitFailed}
	}

	if err := in.Preparer.Prepare(ctx); err != nil {
		log.Error("initialization failed", zap.Error(err))
		return Status{Notice: NoticeInitFailed}
	}

	log.Info("storage initialized")
	return Status{Ready: true}
}
