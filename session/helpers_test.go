/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is a Subscriber that keeps every frame it is sent.
type recorder struct {
	mu     sync.Mutex
	frames [][]byte
	full   bool
	closed int
}

func (r *recorder) Send(frame []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.full {
		return false
	}
	r.frames = append(r.frames, frame)

	return true
}

func (r *recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed++
}

// take returns and clears the envelopes received so far.
func (r *recorder) take(t *testing.T) []Envelope {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Envelope, 0, len(r.frames))
	for _, f := range r.frames {
		env, err := DecodeEnvelope(f)
		require.NoError(t, err)
		out = append(out, env)
	}
	r.frames = nil

	return out
}

func decodeStatus(t *testing.T, env Envelope) Status {
	t.Helper()

	require.Equal(t, EventStatus, env.Event)

	var s Status
	require.NoError(t, json.Unmarshal(env.Data, &s))

	return s
}

type testSession struct {
	router  *Router
	store   *Store
	members *Registry
	channel *Channel
}

func newTestSession(opts ...Option) *testSession {
	ts := &testSession{
		store:   NewStore(),
		members: NewRegistry(),
		channel: NewChannel(),
	}
	ts.router = NewRouter(ts.store, ts.members, ts.channel, opts...)

	return ts
}

func (ts *testSession) connect(id ConnID) *recorder {
	rec := &recorder{}
	ts.router.Connect(id, rec)

	return rec
}
