// Copyright (c) 2026 Vpnwatch Authors
// SPDX-License-Identifier: MIT
// See LICENSES/MIT.txt for full license text

package admins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharedco/vpnwatch/internal/client"
)

type fakeAPI struct {
	added   []string
	removed []string
	resp    *client.AdminResponse
	err     error
}

func (f *fakeAPI) AddAdmin(ctx context.Context, id string) (*client.AdminResponse, error) {
	f.added = append(f.added, id)
	return f.resp, f.err
}

func (f *fakeAPI) RemoveAdmin(ctx context.Context, id string) (*client.AdminResponse, error) {
	f.removed = append(f.removed, id)
	return f.resp, f.err
}

func TestAddBlankInputWarns(t *testing.T) {
	api := &fakeAPI{}
	e := NewEditor(api, View{})

	assert.False(t, e.Add(context.Background(), "   "))
	assert.Empty(t, api.added)
	require.NotNil(t, e.View().Alert)
	assert.Equal(t, Alert{Level: Warning, Message: EmptyInputText}, *e.View().Alert)
}

func TestAddSuccess(t *testing.T) {
	active := true
	api := &fakeAPI{resp: &client.AdminResponse{
		Admins:           []client.Admin{{ID: "42", Display: "@alice"}},
		AvailableAdmins:  []client.Admin{{ID: "7", Display: "@bob"}},
		AdminIDValue:     "42",
		BotServiceActive: &active,
	}}
	e := NewEditor(api, View{})

	assert.True(t, e.Add(context.Background(), " 42 "))
	assert.Equal(t, []string{"42"}, api.added)

	v := e.View()
	assert.Equal(t, []string{"@alice (42)"}, v.Lines())
	assert.Len(t, v.Candidates, 1)
	assert.Equal(t, "42", v.AdminID)
	assert.Equal(t, "on", v.BotStatus())
	assert.Equal(t, Alert{Level: Success, Message: AddedText}, *v.Alert)
}

func TestBotStatusKeptWhenAbsent(t *testing.T) {
	off := false
	api := &fakeAPI{resp: &client.AdminResponse{Message: "Done"}}
	e := NewEditor(api, View{BotActive: &off})

	assert.True(t, e.Remove(context.Background(), "42"))
	v := e.View()
	assert.Equal(t, "off", v.BotStatus())
	assert.Equal(t, []string{NoAdminsText}, v.Lines())
	assert.Equal(t, "Done", v.Alert.Message)
}

func TestServerErrorMessage(t *testing.T) {
	api := &fakeAPI{err: &client.APIError{StatusCode: 400, Message: "already an admin"}}
	e := NewEditor(api, View{Admins: []client.Admin{{ID: "1", Display: "x"}}})

	assert.False(t, e.Add(context.Background(), "1"))
	v := e.View()
	assert.Equal(t, Alert{Level: Danger, Message: "already an admin"}, *v.Alert)
	assert.Len(t, v.Admins, 1, "list unchanged on error")
}

func TestServerErrorDefaultMessage(t *testing.T) {
	api := &fakeAPI{err: &client.APIError{StatusCode: 500}}
	e := NewEditor(api, View{})

	assert.False(t, e.Remove(context.Background(), "1"))
	assert.Equal(t, ErrorText, e.View().Alert.Message)
}

func TestNetworkError(t *testing.T) {
	api := &fakeAPI{err: errors.New("connection refused")}
	e := NewEditor(api, View{})

	assert.False(t, e.Add(context.Background(), "1"))
	assert.Equal(t, Alert{Level: Danger, Message: AddFailedText}, *e.View().Alert)
}

func TestRemoveBlankIsNoop(t *testing.T) {
	api := &fakeAPI{}
	e := NewEditor(api, View{})

	assert.False(t, e.Remove(context.Background(), ""))
	assert.Empty(t, api.removed)
	assert.Nil(t, e.View().Alert)
}

func TestTokenField(t *testing.T) {
	f := NewTokenField("abc")
	assert.True(t, f.Masked())
	assert.Equal(t, "•••", f.String())

	f.Toggle()
	assert.Equal(t, "abc", f.String())
}
