package handler

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger checks that a backend answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DiagFlags reports which secrets and backends are configured. Values are never exposed.
type DiagFlags struct {
	HasDatabase      bool `json:"hasDatabase"`
	HasSessionSecret bool `json:"hasSessionSecret"`
	HasPepper        bool `json:"hasPepper"`
	HasStaffPin      bool `json:"hasStaffPin"`
	HasRedis         bool `json:"hasRedis"`
}

type diagResponse struct {
	DiagFlags
	DatabaseReachable bool `json:"databaseReachable"`
}

// Diag serves the configuration diagnostic endpoint.
type Diag struct {
	flags    DiagFlags
	database Pinger
}

// NewDiag creates a new Diag handler. database may be nil.
func NewDiag(flags DiagFlags, database Pinger) *Diag {
	return &Diag{flags: flags, database: database}
}

func (h *Diag) Diag(w http.ResponseWriter, r *http.Request) {
	resp := diagResponse{DiagFlags: h.flags}

	if h.database != nil && h.flags.HasDatabase {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		resp.DatabaseReachable = h.database.Ping(ctx) == nil
	}

	writeJSON(w, http.StatusOK, resp)
}
