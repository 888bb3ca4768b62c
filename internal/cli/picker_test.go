package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krhatland/cloudnetdraw-go/pkg/azure"
)

func pickerSubs() []azure.Subscription {
	return []azure.Subscription{
		{ID: "sub-1", Name: "Production"},
		{ID: "sub-2", Name: "Development"},
		{ID: "sub-3", Name: "Sandbox"},
	}
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m tea.Model, msg tea.Msg) subscriptionPicker {
	t.Helper()
	next, _ := m.Update(msg)
	picker, ok := next.(subscriptionPicker)
	if !ok {
		t.Fatalf("Update returned %T, want subscriptionPicker", next)
	}
	return picker
}

func TestPickerToggleAndConfirm(t *testing.T) {
	m := newSubscriptionPicker(pickerSubs())

	m = step(t, m, key(" "))
	m = step(t, m, key("j"))
	m = step(t, m, key("j"))
	m = step(t, m, key(" "))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.confirmed {
		t.Fatal("expected picker to be confirmed")
	}
	picked := m.picked()
	if len(picked) != 2 {
		t.Fatalf("picked %d subscriptions, want 2", len(picked))
	}
	if picked[0].ID != "sub-1" || picked[1].ID != "sub-3" {
		t.Errorf("picked = %v, want sub-1 and sub-3 in order", picked)
	}
}

func TestPickerSelectAllAndNone(t *testing.T) {
	m := newSubscriptionPicker(pickerSubs())

	m = step(t, m, key("a"))
	if got := len(m.picked()); got != 3 {
		t.Errorf("after 'a': picked %d, want 3", got)
	}

	m = step(t, m, key("n"))
	if got := len(m.picked()); got != 0 {
		t.Errorf("after 'n': picked %d, want 0", got)
	}
}

func TestPickerEnterRequiresSelection(t *testing.T) {
	m := newSubscriptionPicker(pickerSubs())
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.confirmed {
		t.Error("enter with no selection should not confirm")
	}
}

func TestPickerQuitLeavesUnconfirmed(t *testing.T) {
	m := newSubscriptionPicker(pickerSubs())
	m = step(t, m, key(" "))
	m = step(t, m, key("q"))
	if m.confirmed {
		t.Error("quit should leave the picker unconfirmed")
	}
}

func TestPickerCursorBounds(t *testing.T) {
	m := newSubscriptionPicker(pickerSubs())

	m = step(t, m, key("k"))
	if m.cursor != 0 {
		t.Errorf("cursor moved above the list: %d", m.cursor)
	}

	for i := 0; i < 5; i++ {
		m = step(t, m, key("j"))
	}
	if m.cursor != 2 {
		t.Errorf("cursor moved past the list: %d, want 2", m.cursor)
	}
}
