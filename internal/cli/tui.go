package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/proctex/pkg/preset"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// presetEntry is one row of the picker.
type presetEntry struct {
	Name        string
	Description string
}

func presetEntries() []presetEntry {
	names := preset.Names()
	entries := make([]presetEntry, len(names))
	for i, name := range names {
		desc, _ := preset.Describe(name)
		entries[i] = presetEntry{Name: name, Description: desc}
	}
	return entries
}

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Presets  []presetEntry
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewPresetListModel creates a picker over all presets with the default
// preset under the cursor.
func NewPresetListModel() PresetListModel {
	m := PresetListModel{Presets: presetEntries(), Height: 15}
	for i, p := range m.Presets {
		if p.Name == preset.DefaultName {
			m.Cursor = i
		}
	}
	return m
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Presets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Presets) > 0 {
				m.Selected = m.Presets[m.Cursor].Name
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Presets))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, m.Presets[i].Name, m.Presets[i].Description})
	}

	b.WriteString(presetTable(rows, func(row int) bool { return m.Offset+row == m.Cursor }).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Presets))))

	return b.String()
}

// presetTable renders rows of (cursor, name, description). current reports
// whether a data row is highlighted.
func presetTable(rows [][]string, current func(row int) bool) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return headerStyle
			case current != nil && current(row):
				return listSelectedStyle
			case col == 2:
				return listDimStyle
			default:
				return listNormalStyle
			}
		})
}

// pickPreset runs the interactive picker. It returns "" if the user quit.
func pickPreset() (string, error) {
	final, err := tea.NewProgram(NewPresetListModel()).Run()
	if err != nil {
		return "", err
	}
	return final.(PresetListModel).Selected, nil
}
