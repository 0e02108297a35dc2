/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelPublishByRole(t *testing.T) {
	c := NewChannel()
	prompter, controller := &recorder{}, &recorder{}
	c.Subscribe("p", prompter)
	c.Subscribe("c", controller)
	c.Assign("p", RolePrompter)

	c.PublishRole(RolePrompter, Frame(EventControl, []byte(`{"type":"x"}`)))
	c.Publish(Frame(EventStatus, []byte(`{}`)))
	c.PublishTo("c", Frame(EventStatus, []byte(`{"only":"c"}`)))

	got := prompter.take(t)
	require.Len(t, got, 2)
	assert.Equal(t, EventControl, got[0].Event)
	assert.Equal(t, EventStatus, got[1].Event)

	got = controller.take(t)
	require.Len(t, got, 2)
	assert.Equal(t, EventStatus, got[0].Event)
	assert.JSONEq(t, `{"only":"c"}`, string(got[1].Data))
}

func TestChannelAssignUnknownIsNoop(t *testing.T) {
	c := NewChannel()
	c.Assign("ghost", RolePrompter)

	assert.Zero(t, c.Len())
}

func TestChannelDropsStuckSubscriber(t *testing.T) {
	c := NewChannel()

	var dropped []ConnID
	c.OnDrop(func(id ConnID) { dropped = append(dropped, id) })

	stuck, healthy := &recorder{full: true}, &recorder{}
	c.Subscribe("stuck", stuck)
	c.Subscribe("healthy", healthy)

	c.Publish(Frame(EventStatus, []byte(`{}`)))
	c.Publish(Frame(EventStatus, []byte(`{}`)))

	assert.Len(t, healthy.take(t), 2)
	assert.Equal(t, 1, stuck.closed)
	assert.Equal(t, []ConnID{"stuck"}, dropped)
	assert.Equal(t, 1, c.Len())

	// Already gone, so unsubscribing must not close it again.
	c.Unsubscribe("stuck")
	assert.Equal(t, 1, stuck.closed)
}

func TestChannelResubscribeClosesPrevious(t *testing.T) {
	c := NewChannel()
	first, second := &recorder{}, &recorder{}

	c.Subscribe("x", first)
	c.Subscribe("x", second)
	c.Publish(Frame(EventStatus, []byte(`{}`)))

	assert.Equal(t, 1, first.closed)
	assert.Empty(t, first.take(t))
	assert.Len(t, second.take(t), 1)

	c.Unsubscribe("x")
	assert.Equal(t, 1, second.closed)
}
