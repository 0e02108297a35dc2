/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"github.com/Seednode/teleprompter/paragraphs"
)

const DefaultFont = "OpenDyslexic"

// State is the script and presentation settings shared by every prompter.
type State struct {
	Script    []paragraphs.Paragraph
	Position  float64
	FontSize  *float64
	Speed     float64
	Scrolling bool
	Font      string
	Uppercase bool
}

// Store holds the one live State. It does no locking of its own; the
// Router serialises every call.
type Store struct {
	state State
}

func NewStore() *Store {
	return &Store{
		state: State{
			Script: []paragraphs.Paragraph{},
			Font:   DefaultFont,
		},
	}
}

// Load replaces the script and stops scrolling. Font, font size and case
// are presentation preferences and carry over to the new script.
func (s *Store) Load(script []paragraphs.Paragraph) {
	if script == nil {
		script = []paragraphs.Paragraph{}
	}

	s.state.Script = script
	s.state.Position = 0
	s.state.Speed = 0
	s.state.Scrolling = false
}

// Apply mutates the state for ev and returns the result. Fields an event
// does not name are left alone; the last write wins.
func (s *Store) Apply(ev Event) State {
	switch e := ev.(type) {
	case Load:
		s.Load(e.Paragraphs)
	case SetPosition:
		if e.Pos != nil {
			s.state.Position = *e.Pos
		}
	case SetFontSize:
		s.state.FontSize = e.Size
	case Scroll:
		if e.Speed >= 0 {
			s.state.Speed = e.Speed
		}
	case SetFont:
		s.state.Font = e.Font
	case SetUppercase:
		s.state.Uppercase = e.Enabled
	}

	s.state.Scrolling = s.state.Speed != 0

	return s.Snapshot()
}

func (s *Store) Snapshot() State {
	out := s.state
	if s.state.FontSize != nil {
		size := *s.state.FontSize
		out.FontSize = &size
	}

	return out
}
