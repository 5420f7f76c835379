package menu

import (
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Terminal renders a Menu as tview lists and reports selections as menu ids.
type Terminal struct {
	app      *tview.Application
	columns  *tview.Flex
	status   *tview.TextView
	logText  *tview.TextView
	lists    []*tview.List
	focus    int
	selected chan int
}

func NewTerminal() *Terminal {
	t := &Terminal{
		app:      tview.NewApplication(),
		columns:  tview.NewFlex(),
		status:   tview.NewTextView(),
		logText:  tview.NewTextView(),
		selected: make(chan int, 8),
	}

	t.status.SetBorder(true).SetTitle("Status")

	t.logText.SetMaxLines(200).SetBorder(true).SetTitle("Log")
	t.logText.SetChangedFunc(func() { t.app.Draw() })

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.columns, 0, 1, true).
		AddItem(t.status, 3, 0, false).
		AddItem(t.logText, 10, 0, false)
	t.app.SetRoot(root, true)
	t.app.SetInputCapture(t.handleKey)
	return t
}

func (t *Terminal) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyTab:
		t.cycleFocus(1)
		return nil
	case event.Key() == tcell.KeyBacktab:
		t.cycleFocus(-1)
		return nil
	case event.Key() == tcell.KeyRune && event.Rune() == 'q':
		t.app.Stop()
		return nil
	}
	return event
}

func (t *Terminal) cycleFocus(delta int) {
	if len(t.lists) == 0 {
		return
	}
	t.focus = (t.focus + delta + len(t.lists)) % len(t.lists)
	t.app.SetFocus(t.lists[t.focus])
}

// Show replaces the displayed lists with the groups of m.
func (t *Terminal) Show(m *Menu) {
	t.app.QueueUpdateDraw(func() {
		t.populate(m)
	})
}

func (t *Terminal) populate(m *Menu) {
	t.columns.Clear()
	t.lists = t.lists[:0]
	t.focus = 0
	for _, g := range m.Groups() {
		list := tview.NewList().ShowSecondaryText(false)
		list.SetBorder(true).SetTitle(g.Title)
		for _, it := range g.Items {
			id := it.ID
			list.AddItem(it.Label, "", 0, func() { t.emit(id) })
		}
		t.columns.AddItem(list, 0, 1, len(t.lists) == 0)
		t.lists = append(t.lists, list)
	}
	if len(t.lists) > 0 {
		t.app.SetFocus(t.lists[0])
	}
}

// emit never blocks the UI goroutine; a selection is dropped when the
// consumer has not drained the previous ones.
func (t *Terminal) emit(id int) {
	select {
	case t.selected <- id:
	default:
	}
}

// Selected delivers the ids of chosen menu entries.
func (t *Terminal) Selected() <-chan int {
	return t.selected
}

func (t *Terminal) SetStatus(text string) {
	t.app.QueueUpdateDraw(func() {
		t.status.SetText(text)
	})
}

// LogWriter returns a writer that appends to the log pane.
func (t *Terminal) LogWriter() io.Writer {
	return t.logText
}

// Run blocks until Stop is called or the user quits with 'q'.
func (t *Terminal) Run() error {
	return t.app.Run()
}

func (t *Terminal) Stop() {
	t.app.Stop()
}
