package menu

import "fmt"

const (
	CamerasTitle = "Cameras"
	FormatsTitle = "Video Formats"
)

type Item struct {
	ID    int
	Label string
}

type Group struct {
	Title string
	Items []Item
}

// Menu is a set of titled groups whose entries are identified by ids from
// an IDManager. Build a new Menu whenever the entries change.
type Menu struct {
	ids    *IDManager
	first  int // ids below first belong to earlier menus
	groups []*Group
}

func New() *Menu {
	return NewWithIDs(NewIDManager())
}

// NewWithIDs returns a menu that allocates from ids. Menus rebuilt from the
// same IDManager never share an id, and each only resolves its own.
func NewWithIDs(ids *IDManager) *Menu {
	return &Menu{ids: ids, first: ids.Len() + 1}
}

// AddGroup appends a group with one entry per name, in the given order.
func (m *Menu) AddGroup(title string, names []string) *Group {
	g := &Group{Title: title, Items: make([]Item, 0, len(names))}
	for _, name := range names {
		g.Items = append(g.Items, Item{ID: m.ids.Add(name), Label: name})
	}
	m.groups = append(m.groups, g)
	return g
}

func (m *Menu) Groups() []*Group {
	return m.groups
}

// Group returns the first group with the given title, or nil.
func (m *Menu) Group(title string) *Group {
	for _, g := range m.groups {
		if g.Title == title {
			return g
		}
	}
	return nil
}

// Lookup resolves a selected id back to its entry name.
func (m *Menu) Lookup(id int) (string, error) {
	if id < m.first {
		return "", fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return m.ids.Get(id)
}
