// Package state records dataset builds in a SQLite history database.
//
// Core types are defined in pkg/core; the aliases here keep call sites short.
package state

import (
	"github.com/leapstack-labs/gdpplot/pkg/core"
)

type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run
)

// Re-export status constants from core.
const (
	RunStatusRunning = core.RunStatusRunning
	RunStatusSuccess = core.RunStatusSuccess
	RunStatusFailed  = core.RunStatusFailed
)
