// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/dms/lib/config"
	"github.com/bureau-foundation/dms/lib/failure"
	"github.com/bureau-foundation/dms/lib/snitch"
	"github.com/bureau-foundation/dms/lib/token"
)

// Action is what one run of dms does.
type Action int

const (
	// Report is the default action.
	Report Action = iota
	Commission
	Decommission
	Pause
)

func (action Action) String() string {
	switch action {
	case Report:
		return "report"
	case Commission:
		return "commission"
	case Decommission:
		return "decommission"
	case Pause:
		return "pause"
	default:
		return fmt.Sprintf("Action(%d)", int(action))
	}
}

// Snitches is the subset of the snitch API a Monitor uses.
// *snitch.Client satisfies it.
type Snitches interface {
	Create(ctx context.Context, apiKey string, body []byte) (string, error)
	CheckIn(ctx context.Context, token string) (snitch.Status, error)
	Delete(ctx context.Context, apiKey, token string) (snitch.Status, error)
	Pause(ctx context.Context, apiKey, token string) (snitch.Status, error)
}

// Monitor carries everything an action needs. All fields are required
// except Logger.
type Monitor struct {
	Config   *config.Config
	Tokens   *token.Store
	Snitches Snitches
	Logger   *slog.Logger
}

// Run performs action.
func (m *Monitor) Run(ctx context.Context, action Action) error {
	switch action {
	case Report:
		return m.Report(ctx)
	case Commission:
		return m.Commission(ctx)
	case Decommission:
		return m.Decommission(ctx)
	case Pause:
		return m.Pause(ctx)
	default:
		return failure.Internal("unknown action %v", action)
	}
}

// snitchDescription is the body of the create request.
type snitchDescription struct {
	Name     string   `json:"name"`
	Interval string   `json:"interval"`
	Tags     []string `json:"tags"`
}

// CreateRequestBody returns the create request body for a system: a
// daily snitch for its antivirus scan.
func CreateRequestBody(systemName string) ([]byte, error) {
	body, err := json.Marshal(snitchDescription{
		Name:     systemName + " daily ClamAV",
		Interval: "daily",
		Tags:     []string{"production", "anti-virus"},
	})
	if err != nil {
		return nil, failure.Internal("encoding create request: %w", err)
	}
	return body, nil
}

// Commission creates the snitch and saves its token, unless a readable
// token file already exists.
func (m *Monitor) Commission(ctx context.Context) error {
	if m.Tokens.Exists() {
		m.logger().Info("token file exists, already commissioned", "path", m.Tokens.Path())
		return nil
	}

	systemName, err := m.Config.RequireSystemName()
	if err != nil {
		return err
	}
	body, err := CreateRequestBody(systemName)
	if err != nil {
		return err
	}

	value, err := m.Snitches.Create(ctx, m.Config.APIKey, body)
	if err != nil {
		return fmt.Errorf("commission: %w", err)
	}
	if err := m.Tokens.Save(value); err != nil {
		return fmt.Errorf("commission: %w", err)
	}

	m.logger().Info("commissioned snitch", "system", systemName, "path", m.Tokens.Path())
	return nil
}

// Decommission deletes the snitch and then the token file.
func (m *Monitor) Decommission(ctx context.Context) error {
	value, err := m.Tokens.Load()
	if err != nil {
		return fmt.Errorf("decommission: failed to load token: %w", err)
	}

	status, err := m.Snitches.Delete(ctx, m.Config.APIKey, value)
	if err != nil {
		return fmt.Errorf("decommission: failed to delete: %w", err)
	}
	if !status.Successful() {
		return failure.UnexpectedStatus("decommission: failed to delete: %s", status)
	}

	if err := m.Tokens.Delete(); err != nil {
		return fmt.Errorf("decommission: snitch deleted but %w", err)
	}

	m.logger().Info("decommissioned snitch", "path", m.Tokens.Path())
	return nil
}

// Report checks in.
func (m *Monitor) Report(ctx context.Context) error {
	value, err := m.Tokens.Load()
	if err != nil {
		return fmt.Errorf("report: failed to load token: %w", err)
	}

	status, err := m.Snitches.CheckIn(ctx, value)
	if err != nil {
		return fmt.Errorf("report: failed to check-in: %w", err)
	}
	if !status.OK() {
		return failure.UnexpectedStatus("report: failed to check-in: %s", status)
	}

	m.logger().Debug("checked in")
	return nil
}

// Pause pauses the snitch.
func (m *Monitor) Pause(ctx context.Context) error {
	value, err := m.Tokens.Load()
	if err != nil {
		return fmt.Errorf("pause: failed to load token: %w", err)
	}

	status, err := m.Snitches.Pause(ctx, m.Config.APIKey, value)
	if err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	if !status.OK() {
		return failure.UnexpectedStatus("pause: %s", status)
	}

	m.logger().Info("paused snitch")
	return nil
}

func (m *Monitor) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}
