package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/errors"
	"github.com/sudotliu/bonsai/pkg/treeio"
)

// Editor styles
var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// editCommand creates the edit command for interactive tree editing.
func (c *CLI) editCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "edit [tree.json]",
		Short: "Edit a tree document interactively",
		Long: `Edit a tree document interactively.

The editor shows the tree with live node positions. Leaves can be added
under any node and whole subtrees pruned; positions are recomputed after
every change. Saving writes the document back to the input file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite the input)")

	return cmd
}

// runEdit loads the document, runs the editor, and writes changes back.
func (c *CLI) runEdit(input, output string) error {
	doc, err := treeio.ImportFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	tree, err := bonsai.New(doc.Children(), bonsai.DefaultConfig(), bonsai.WithLogger(c.Logger))
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}

	model := newEditModel(tree)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	result, ok := final.(editModel)
	if !ok || !result.dirty {
		printInfo("No changes")
		return nil
	}

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}
	if err := treeio.ExportFile(treeio.FromTree(result.tree), outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Saved %d nodes", len(result.tree.Nodes()))
	printFile(outputPath)
	printNewline()
	printNextStep("Layout", "bonsai layout "+outputPath)
	return nil
}

// =============================================================================
// editModel - Interactive tree editor
// =============================================================================

// editMode distinguishes browsing from text entry for a new node id.
type editMode int

const (
	modeBrowse editMode = iota
	modeAddLeaf
)

// editRow is one rendered line of the tree: a node id at its depth.
type editRow struct {
	id    string
	depth int
}

// editModel is the bubbletea model for the tree editor.
type editModel struct {
	tree   *bonsai.Tree
	rows   []editRow
	cursor int
	offset int
	height int
	mode   editMode
	input  string
	errMsg string
	dirty  bool
}

// newEditModel creates an editor over tree.
func newEditModel(tree *bonsai.Tree) editModel {
	m := editModel{
		tree:   tree,
		height: 15,
	}
	m.rebuildRows()
	return m
}

// rebuildRows flattens the tree depth-first so rows read top to bottom in
// sibling order.
func (m *editModel) rebuildRows() {
	adjacency := m.tree.Adjacency()
	m.rows = m.rows[:0]

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		m.rows = append(m.rows, editRow{id: id, depth: depth})
		for _, child := range adjacency[id] {
			walk(child.ID, depth+1)
		}
	}
	walk(m.tree.RootID(), 0)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeAddLeaf {
			return m.updateAddLeaf(msg)
		}
		return m.updateBrowse(msg)
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// updateBrowse handles keys while navigating the tree.
func (m editModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case "a":
		m.mode = modeAddLeaf
		m.input = ""
		m.errMsg = ""
	case "d":
		m.errMsg = ""
		row := m.rows[m.cursor]
		if row.id == m.tree.RootID() {
			m.errMsg = "cannot prune the root"
			return m, nil
		}
		parent := m.parentOf(row.id)
		if err := m.tree.Prune(row.id, parent); err != nil {
			m.errMsg = errors.UserMessage(err)
			return m, nil
		}
		m.dirty = true
		m.rebuildRows()
	}
	return m, nil
}

// updateAddLeaf handles keys while typing a new node id.
func (m editModel) updateAddLeaf(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeBrowse
		m.input = ""
	case "enter":
		if m.input == "" {
			m.mode = modeBrowse
			return m, nil
		}
		parent := m.rows[m.cursor].id
		if err := m.tree.AddLeaf(m.input, parent); err != nil {
			m.errMsg = errors.UserMessage(err)
			m.mode = modeBrowse
			m.input = ""
			return m, nil
		}
		m.dirty = true
		m.errMsg = ""
		m.mode = modeBrowse
		m.input = ""
		m.rebuildRows()
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

// parentOf finds the parent id of a node from the current adjacency.
func (m editModel) parentOf(id string) string {
	for parent, children := range m.tree.Adjacency() {
		for _, child := range children {
			if child.ID == id {
				return parent
			}
		}
	}
	return ""
}

func (m editModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Edit Tree"))
	b.WriteString("\n")
	b.WriteString(editDimStyle.Render("↑/↓ navigate  a add leaf  d prune subtree  q save and quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		pos, err := m.tree.Position(row.id)
		coords := ""
		if err == nil {
			coords = fmt.Sprintf("(%g, %g)", pos.X, pos.Y)
		}

		line := fmt.Sprintf("%s%s%-20s %s",
			cursor, strings.Repeat("  ", row.depth), row.id, editDimStyle.Render(coords))

		if i == m.cursor {
			b.WriteString(editSelectedStyle.Render(line))
		} else {
			b.WriteString(editNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeAddLeaf {
		parent := m.rows[m.cursor].id
		b.WriteString(StyleHighlight.Render(fmt.Sprintf("New leaf under %s: ", parent)))
		b.WriteString(m.input)
		b.WriteString(editDimStyle.Render("▏"))
		b.WriteString("\n")
		b.WriteString(editDimStyle.Render("enter: confirm  esc: cancel"))
	} else {
		b.WriteString(editDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(editErrorStyle.Render(iconError + " " + m.errMsg))
	}

	return b.String()
}
