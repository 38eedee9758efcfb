// Package models defines the records shared by the journal, service and MCP layers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome values stored with each record.
const (
	OutcomeResolved = "resolved"
	OutcomeFailed   = "failed"
)

// Record is one journaled resolution attempt.
type Record struct {
	ID         string    `json:"id"`
	ResolvedAt time.Time `json:"resolved_at"`
	Workspace  string    `json:"workspace"`
	Document   string    `json:"document,omitempty"`
	Root       string    `json:"root,omitempty"`
	Strategy   string    `json:"strategy,omitempty"` // document | remembered | workspace
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
}

// NewResolved builds a Record for a successful resolution.
func NewResolved(workspace, document, root, strategy string) *Record {
	return &Record{
		ID:         uuid.NewString(),
		ResolvedAt: time.Now().UTC(),
		Workspace:  workspace,
		Document:   document,
		Root:       root,
		Strategy:   strategy,
		Outcome:    OutcomeResolved,
	}
}

// NewFailed builds a Record for a resolution that found no root.
func NewFailed(workspace, document string, err error) *Record {
	return &Record{
		ID:         uuid.NewString(),
		ResolvedAt: time.Now().UTC(),
		Workspace:  workspace,
		Document:   document,
		Outcome:    OutcomeFailed,
		Error:      err.Error(),
	}
}
