package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports liveness and the state of the service's dependencies.
type Service struct {
	DB          Pinger
	Store       string
	LLMProvider string
	LLMReady    bool
}

// Status is the /health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Store    string `json:"store"`
	LLM      string `json:"llm"`
}

// NewService constructs a new health service. db may be nil for in-memory mode.
func NewService(db Pinger, store, llmProvider string, llmReady bool) *Service {
	return &Service{DB: db, Store: store, LLMProvider: llmProvider, LLMReady: llmReady}
}

// Status pings the database with a short timeout. An unconfigured LLM does not
// fail the check.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Store: s.Store, LLM: "not_configured"}
	if s.LLMReady {
		st.LLM = s.LLMProvider
	}
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(ctx); err != nil {
			st.OK = false
			st.Database = "unreachable"
		} else {
			st.Database = "ok"
		}
	}
	return st
}
