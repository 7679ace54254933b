package inmemory

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/togethertime/server/internal/repository/connection"
)

type nopConn struct{ id string }

func (nopConn) Send(string, any) error { return nil }
func (nopConn) Close() error           { return nil }

func TestRepo(t *testing.T) {
	r := NewRepo(slog.Default())

	c1 := nopConn{id: "c1"}
	require.NoError(t, r.Add("c1", c1))
	assert.ErrorIs(t, r.Add("c1", nopConn{id: "other"}), connection.ErrAlreadyExists)
	assert.Equal(t, 1, r.Len())

	got, err := r.GetConn("c1")
	require.NoError(t, err)
	assert.Equal(t, c1, got)

	removed, err := r.Remove("c1")
	require.NoError(t, err)
	assert.Equal(t, c1, removed)

	_, err = r.GetConn("c1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.Remove("c1")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	assert.Equal(t, 0, r.Len())
}
