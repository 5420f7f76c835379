package menu

import (
	"errors"
	"fmt"
)

var ErrUnknownID = errors.New("unknown menu id")

// IDManager hands out menu identifiers and resolves them back to names.
// Identifiers start at 1 and are never reused, so 0 can mean "no selection".
type IDManager struct {
	current int
	names   map[int]string
}

func NewIDManager() *IDManager {
	return &IDManager{names: make(map[int]string)}
}

// Add stores name under a fresh identifier and returns it.
func (m *IDManager) Add(name string) int {
	m.current++
	m.names[m.current] = name
	return m.current
}

// Get returns the name registered for id.
func (m *IDManager) Get(id int) (string, error) {
	name, ok := m.names[id]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return name, nil
}

func (m *IDManager) Len() int {
	return len(m.names)
}
