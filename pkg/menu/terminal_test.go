package menu

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func pressEnter(l *tview.List) {
	l.InputHandler()(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), func(tview.Primitive) {})
}

func TestTerminalPopulate(t *testing.T) {
	m := New()
	m.AddGroup(CamerasTitle, []string{"Front", "Back"})
	m.AddGroup(FormatsTitle, []string{"Video-MJPG: 640x480@30fps"})

	term := NewTerminal()
	term.populate(m)

	if len(term.lists) != 2 {
		t.Fatalf("len(lists) = %d, want 2", len(term.lists))
	}
	if n := term.lists[0].GetItemCount(); n != 2 {
		t.Errorf("cameras item count = %d, want 2", n)
	}
	if main, _ := term.lists[1].GetItemText(0); main != "Video-MJPG: 640x480@30fps" {
		t.Errorf("formats item 0 = %q, want %q", main, "Video-MJPG: 640x480@30fps")
	}

	term.populate(New())
	if len(term.lists) != 0 {
		t.Errorf("len(lists) after empty menu = %d, want 0", len(term.lists))
	}
}

func TestTerminalSelectionEmitsID(t *testing.T) {
	m := New()
	cams := m.AddGroup(CamerasTitle, []string{"Front", "Back"})

	term := NewTerminal()
	term.populate(m)

	term.lists[0].SetCurrentItem(1)
	pressEnter(term.lists[0])

	select {
	case id := <-term.Selected():
		if id != cams.Items[1].ID {
			t.Errorf("selected id = %d, want %d", id, cams.Items[1].ID)
		}
		if name, err := m.Lookup(id); err != nil || name != "Back" {
			t.Errorf("Lookup(%d) = %q, %v, want %q", id, name, err, "Back")
		}
	default:
		t.Fatal("no selection delivered")
	}
}

func TestTerminalEmitDropsWhenFull(t *testing.T) {
	term := NewTerminal()
	for i := 1; i <= cap(term.selected)+4; i++ {
		term.emit(i)
	}
	if len(term.selected) != cap(term.selected) {
		t.Errorf("queued selections = %d, want %d", len(term.selected), cap(term.selected))
	}
	if id := <-term.Selected(); id != 1 {
		t.Errorf("first selection = %d, want 1", id)
	}
}
