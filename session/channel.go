/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import "sync"

type Role string

const (
	RoleUnassigned Role = ""
	RolePrompter   Role = "prompter"
)

// Subscriber is the transport side of one connection.
type Subscriber interface {
	// Send queues frame without blocking and reports false when the
	// connection cannot keep up.
	Send(frame []byte) bool
	// Close releases the connection. It is called at most once per
	// subscription, after which Send is never called again.
	Close()
}

// Broadcaster is everything the Router needs from the transport layer.
type Broadcaster interface {
	Subscribe(id ConnID, sub Subscriber)
	Unsubscribe(id ConnID)
	Assign(id ConnID, role Role)
	Publish(frame []byte)
	PublishRole(role Role, frame []byte)
	PublishTo(id ConnID, frame []byte)
}

type member struct {
	sub  Subscriber
	role Role
}

// Channel fans frames out to subscribers by role. A subscriber whose
// queue is full is dropped and closed rather than waited on, so one stuck
// connection never holds up the rest.
type Channel struct {
	mu      sync.Mutex
	members map[ConnID]*member
	onDrop  func(ConnID)
}

func NewChannel() *Channel {
	return &Channel{members: make(map[ConnID]*member)}
}

// OnDrop registers fn to run, outside the channel lock, for every
// subscriber dropped for falling behind. Publishing happens while the
// Router holds its lock, so fn must not call back into the Router.
func (c *Channel) OnDrop(fn func(ConnID)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onDrop = fn
}

// Subscribe adds sub with no role. A subscriber already registered under
// id is closed and replaced.
func (c *Channel) Subscribe(id ConnID, sub Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.members[id]; ok && old.sub != sub {
		old.sub.Close()
	}

	c.members[id] = &member{sub: sub}
}

func (c *Channel) Unsubscribe(id ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.members[id]; ok {
		delete(c.members, id)
		m.sub.Close()
	}
}

func (c *Channel) Assign(id ConnID, role Role) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.members[id]; ok {
		m.role = role
	}
}

func (c *Channel) Publish(frame []byte) {
	c.publish(frame, func(ConnID, *member) bool { return true })
}

func (c *Channel) PublishRole(role Role, frame []byte) {
	c.publish(frame, func(_ ConnID, m *member) bool { return m.role == role })
}

func (c *Channel) PublishTo(id ConnID, frame []byte) {
	c.publish(frame, func(mid ConnID, _ *member) bool { return mid == id })
}

func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.members)
}

func (c *Channel) publish(frame []byte, match func(ConnID, *member) bool) {
	if frame == nil {
		return
	}

	c.mu.Lock()

	var dropped []ConnID
	for id, m := range c.members {
		if !match(id, m) {
			continue
		}

		if !m.sub.Send(frame) {
			delete(c.members, id)
			m.sub.Close()
			dropped = append(dropped, id)
		}
	}

	onDrop := c.onDrop
	c.mu.Unlock()

	if onDrop == nil {
		return
	}
	for _, id := range dropped {
		onDrop(id)
	}
}
