package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/topicmap/pkg/graph"
	"github.com/matzehuels/topicmap/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// MapListModel - Interactive saved map selection
// =============================================================================

// MapListModel is the bubbletea model for picking one of the user's maps.
type MapListModel struct {
	Maps     []store.Map
	Cursor   int
	Selected *store.Map
	Height   int
	Offset   int
}

// NewMapListModel creates a new map list model.
func NewMapListModel(maps []store.Map) MapListModel {
	return MapListModel{Maps: maps, Height: 15}
}

func (m MapListModel) Init() tea.Cmd {
	return nil
}

func (m MapListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Maps)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Maps) == 0 {
				return m, nil
			}
			selected := m.Maps[m.Cursor]
			m.Selected = &selected
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m MapListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Mind Map"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Maps))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		mp := m.Maps[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mains, subs := mp.Tree.Counts()
		rows = append(rows, []string{
			cursor,
			mp.Title,
			fmt.Sprintf("%d", mains),
			fmt.Sprintf("%d", subs),
			formatRelativeTime(mp.UpdatedAt),
			displayOr(mp.Source, "—"),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Title", "Main", "Sub", "Updated", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col >= 4 {
				base = base.Foreground(colorDim)
			}
			if m.Offset+row == m.Cursor {
				if col < 4 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Maps) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Maps))))
	}

	return b.String()
}

// =============================================================================
// TopicBrowserModel - Walk the nodes of a laid-out map
// =============================================================================

// TopicBrowserModel is the bubbletea model for browsing a laid-out mind map.
// Nodes are listed subject first, each main topic followed by its subtopics.
type TopicBrowserModel struct {
	Title  string
	Nodes  []graph.Node
	Cursor int
	Height int
	Offset int
}

// NewTopicBrowserModel orders the layout's nodes as an outline.
func NewTopicBrowserModel(title string, l graph.Layout) TopicBrowserModel {
	return TopicBrowserModel{Title: title, Nodes: outline(l), Height: 15}
}

// outline orders nodes subject, then each main topic with its children.
func outline(l graph.Layout) []graph.Node {
	children := make(map[string][]graph.Node)
	var subject []graph.Node
	var mains []graph.Node
	for _, n := range l.Nodes {
		switch n.Kind {
		case graph.KindSubject:
			subject = append(subject, n)
		case graph.KindMain:
			mains = append(mains, n)
		default:
			children[n.Parent] = append(children[n.Parent], n)
		}
	}
	out := make([]graph.Node, 0, len(l.Nodes))
	out = append(out, subject...)
	for _, mn := range mains {
		out = append(out, mn)
		out = append(out, children[mn.ID]...)
	}
	return out
}

func (m TopicBrowserModel) Init() tea.Cmd {
	return nil
}

func (m TopicBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Nodes); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(n-m.Height, 0)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m TopicBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(displayOr(m.Title, "Mind Map")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		title := n.DisplayTitle()
		switch n.Kind {
		case graph.KindSubject:
			title = styleSubject.Render(title)
		case graph.KindMain:
			title = "  " + styleMain.Render(title)
		default:
			title = "      " + styleSub.Render(title)
		}
		if i == m.Cursor {
			cursor = listSelectedStyle.Render(cursor)
		}
		b.WriteString(cursor + title + "\n")
	}

	if len(m.Nodes) > 0 {
		b.WriteString("\n")
		b.WriteString(m.details(m.Nodes[m.Cursor]))
	}
	return b.String()
}

// details describes the selected node's placement.
func (m TopicBrowserModel) details(n graph.Node) string {
	lines := []string{
		fmt.Sprintf("kind      %s", n.Kind),
		fmt.Sprintf("position  (%.0f, %.0f)", n.X, n.Y),
		fmt.Sprintf("ellipse   %.0f × %.0f", 2*n.RX, 2*n.RY),
		fmt.Sprintf("font      %.1f", n.FontSize),
	}
	if n.Ring > 0 {
		lines = append(lines, fmt.Sprintf("ring      %.0f", n.Ring))
	}
	if n.Title != n.DisplayTitle() {
		lines = append(lines, fmt.Sprintf("label     %s", n.Title))
	}
	return listDimStyle.Render(strings.Join(lines, "\n")) + "\n" +
		listDimStyle.Render(fmt.Sprintf("[%d/%d]", m.Cursor+1, len(m.Nodes)))
}
