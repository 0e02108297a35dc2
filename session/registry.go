/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

// ConnID identifies one live websocket connection.
type ConnID string

// Registry is the set of connections that joined as prompters. Only its
// size ever leaves the process.
type Registry struct {
	members map[ConnID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{members: make(map[ConnID]struct{})}
}

// Add reports whether id was newly added.
func (r *Registry) Add(id ConnID) bool {
	if _, ok := r.members[id]; ok {
		return false
	}
	r.members[id] = struct{}{}

	return true
}

// Remove reports whether id was a member.
func (r *Registry) Remove(id ConnID) bool {
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)

	return true
}

func (r *Registry) Contains(id ConnID) bool {
	_, ok := r.members[id]

	return ok
}

func (r *Registry) Len() int {
	return len(r.members)
}
