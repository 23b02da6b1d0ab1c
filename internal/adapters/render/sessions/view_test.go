package sessions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relvane/botsessions/internal/domain"
)

type fakeConn struct {
	id     string
	online bool
}

func (f fakeConn) Identifier() string { return f.id }
func (f fakeConn) IsOnline() bool     { return f.online }

func sampleEntries() []domain.Session {
	return []domain.Session{
		{
			AccountID:   "1001",
			DisplayName: "alice",
			Client:      fakeConn{id: "1001", online: true},
			Status:      domain.SessionOnline,
		},
		{
			AccountID:   "1002",
			DisplayName: "bob",
			Client:      fakeConn{id: "1002", online: false},
			Status:      domain.SessionFailed,
		},
	}
}

func TestRenderViewListsAllSessions(t *testing.T) {
	out := renderView(sampleEntries(), RenderOptions{}, newStyles())

	assert.Contains(t, out, "Bot Sessions")
	assert.Contains(t, out, "sessions: 2")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "offline")
	assert.Contains(t, out, "account 1001")
}

func TestRenderViewOnlineOnlyHidesDropped(t *testing.T) {
	out := renderView(sampleEntries(), RenderOptions{OnlineOnly: true}, newStyles())

	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "bob")
}

func TestRenderViewEmpty(t *testing.T) {
	out := renderView(nil, RenderOptions{}, newStyles())

	assert.Contains(t, out, "No sessions to show.")
}

func TestRenderRunsProgramToCompletion(t *testing.T) {
	out, err := Render(sampleEntries(), RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
}
