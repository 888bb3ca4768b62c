package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krhatland/cloudnetdraw-go/pkg/azure"
	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// subscriptionPicker - interactive subscription selection
// =============================================================================

// subscriptionPicker is the bubbletea model for interactive multi-select of
// subscriptions when neither --subscriptions nor --all is given.
type subscriptionPicker struct {
	subs      []azure.Subscription
	cursor    int
	selected  map[int]bool
	height    int
	offset    int
	confirmed bool
}

func newSubscriptionPicker(subs []azure.Subscription) subscriptionPicker {
	return subscriptionPicker{
		subs:     subs,
		selected: make(map[int]bool),
		height:   15,
	}
}

func (m subscriptionPicker) Init() tea.Cmd {
	return nil
}

func (m subscriptionPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.subs)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "a":
			for i := range m.subs {
				m.selected[i] = true
			}
		case "n":
			clear(m.selected)
		case "enter":
			if len(m.picked()) == 0 {
				return m, nil
			}
			m.confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m subscriptionPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Subscriptions"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  a all  n none  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.subs) {
		end = len(m.subs)
	}

	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.selected[i] {
			mark = "[x]"
		}

		style := listNormalStyle
		if i == m.cursor {
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%s%s %s", cursor, mark, m.subs[i].Name)
		b.WriteString(style.Render(line))
		b.WriteString(listDimStyle.Render("  " + m.subs[i].ID))
		b.WriteString("\n")
	}

	if len(m.subs) > m.height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.subs))))
	}
	return b.String()
}

func (m subscriptionPicker) picked() []azure.Subscription {
	var out []azure.Subscription
	for i, s := range m.subs {
		if m.selected[i] {
			out = append(out, s)
		}
	}
	return out
}

// pickSubscriptions runs the interactive picker and returns the chosen
// subscriptions. Quitting without confirming is an error, not an empty
// query.
func pickSubscriptions(subs []azure.Subscription) ([]azure.Subscription, error) {
	final, err := tea.NewProgram(newSubscriptionPicker(subs)).Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(subscriptionPicker)
	if !ok || !m.confirmed {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "subscription selection cancelled")
	}
	return m.picked(), nil
}
