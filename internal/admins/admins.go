// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

// Package admins edits the list of bot administrators.
package admins

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sharedco/vpnwatch/internal/client"
)

// Alert levels
const (
	Success = "success"
	Warning = "warning"
	Danger  = "danger"
)

// Default alert text
const (
	EmptyInputText = "Enter an ID or pick a user."
	ErrorText      = "An error occurred."
	AddFailedText  = "Failed to add administrator."
	RemoveFailText = "Failed to remove administrator."
	AddedText      = "Administrator added."
	RemovedText    = "Administrator removed."
	NoAdminsText   = "No administrators added."
)

// API is the admin part of the backend
type API interface {
	AddAdmin(ctx context.Context, telegramID string) (*client.AdminResponse, error)
	RemoveAdmin(ctx context.Context, telegramID string) (*client.AdminResponse, error)
}

// Alert is a message shown after an action
type Alert struct {
	Level   string
	Message string
}

// View is the state of the admin settings form
type View struct {
	Admins     []client.Admin
	Candidates []client.Admin
	AdminID    string
	BotActive  *bool
	Alert      *Alert
}

// Lines renders the admin list
func (v View) Lines() []string {
	if len(v.Admins) == 0 {
		return []string{NoAdminsText}
	}
	lines := make([]string, len(v.Admins))
	for i, a := range v.Admins {
		lines[i] = a.Display + " (" + a.ID + ")"
	}
	return lines
}

// BotStatus renders the bot service indicator
func (v View) BotStatus() string {
	switch {
	case v.BotActive == nil:
		return "unknown"
	case *v.BotActive:
		return "on"
	default:
		return "off"
	}
}

// Editor applies add and remove actions to a View
type Editor struct {
	api API

	mu   sync.Mutex
	view View
}

// NewEditor starts from initial, typically the list rendered with the settings page
func NewEditor(api API, initial View) *Editor {
	return &Editor{api: api, view: initial}
}

// View returns the current state
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// Add grants admin rights to the user in value. It reports whether the
// backend accepted the change; the outcome is also set as the view's alert.
func (e *Editor) Add(ctx context.Context, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		e.alert(Warning, EmptyInputText)
		return false
	}
	resp, err := e.api.AddAdmin(ctx, value)
	return e.finish(resp, err, AddedText, AddFailedText)
}

// Remove revokes admin rights. A blank id does nothing.
func (e *Editor) Remove(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	resp, err := e.api.RemoveAdmin(ctx, id)
	return e.finish(resp, err, RemovedText, RemoveFailText)
}

func (e *Editor) finish(resp *client.AdminResponse, err error, okText, failText string) bool {
	if err != nil {
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) {
			e.alert(Danger, failText)
			return false
		}
		msg := apiErr.Message
		if msg == "" {
			msg = ErrorText
		}
		e.alert(Danger, msg)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	msg := okText
	if resp != nil {
		e.view.Admins = resp.Admins
		e.view.Candidates = resp.AvailableAdmins
		e.view.AdminID = resp.AdminIDValue
		if resp.BotServiceActive != nil {
			active := *resp.BotServiceActive
			e.view.BotActive = &active
		}
		if resp.Message != "" {
			msg = resp.Message
		}
	}
	e.view.Alert = &Alert{Level: Success, Message: msg}
	return true
}

func (e *Editor) alert(level, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.Alert = &Alert{Level: level, Message: msg}
}
