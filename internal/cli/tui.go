package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// repoRow is one line of the repository picker.
type repoRow struct {
	FullName string `json:"full_name" yaml:"full_name"`
	ID       int64  `json:"id" yaml:"id"`
	WebURL   string `json:"web_url" yaml:"web_url"`
}

// =============================================================================
// RepoListModel - Interactive repository selection
// =============================================================================

// RepoListModel is the bubbletea model for interactive repo selection.
type RepoListModel struct {
	Repos    []repoRow
	Cursor   int
	Selected *repoRow
	Height   int
	Offset   int
	Filter   string
}

// NewRepoListModel creates a new repo list model.
func NewRepoListModel(repos []repoRow) RepoListModel {
	return RepoListModel{Repos: repos, Height: 15}
}

func (m RepoListModel) Init() tea.Cmd {
	return nil
}

// visible returns the rows matching the filter typed so far.
func (m RepoListModel) visible() []repoRow {
	if m.Filter == "" {
		return m.Repos
	}
	var out []repoRow
	needle := strings.ToLower(m.Filter)
	for _, r := range m.Repos {
		if strings.Contains(strings.ToLower(r.FullName), needle) {
			out = append(out, r)
		}
	}
	return out
}

func (m RepoListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		rows := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(rows) == 0 {
				return m, nil
			}
			row := rows[m.Cursor]
			m.Selected = &row
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 7
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RepoListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Repository"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleHighlight.Render("filter: " + m.Filter))
	}
	b.WriteString("\n")

	repos := m.visible()
	end := m.Offset + m.Height
	if end > len(repos) {
		end = len(repos)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := repos[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.FullName, fmt.Sprint(r.ID), r.WebURL})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Repository", "ID", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(repos)), len(repos))))

	return b.String()
}
