package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/layout"
	"github.com/matzehuels/seatmap/pkg/render"
)

// Grid geometry in terminal cells. The editor view starts with a title
// line, a toolbar and a column header; every grid row is one line.
const (
	cellWidth = 5
	gutter    = 4
	gridTop   = 3
)

// =============================================================================
// Key Bindings
// =============================================================================

// editKeyMap extends the editor bindings with terminal-only commands.
type editKeyMap struct {
	editor.KeyMap

	Tools       []key.Binding
	CursorUp    key.Binding
	CursorDown  key.Binding
	CursorLeft  key.Binding
	CursorRight key.Binding
	Click       key.Binding
	AddRow      key.Binding
	RemoveRow   key.Binding
	AddCol      key.Binding
	RemoveCol   key.Binding
	ToolWider   key.Binding
	ToolNarrow  key.Binding
	ToolTaller  key.Binding
	ToolShort   key.Binding
	Clear       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func newEditKeyMap(km editor.KeyMap) editKeyMap {
	k := editKeyMap{
		KeyMap:      km,
		CursorUp:    key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "cursor up")),
		CursorDown:  key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "cursor down")),
		CursorLeft:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "cursor left")),
		CursorRight: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "cursor right")),
		Click:       key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "click cell")),
		AddRow:      key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "add row")),
		RemoveRow:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "remove row")),
		AddCol:      key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "add column")),
		RemoveCol:   key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "remove column")),
		ToolWider:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "wider tool")),
		ToolNarrow:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "narrower tool")),
		ToolTaller:  key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "taller tool")),
		ToolShort:   key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "shorter tool")),
		Clear:       key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i, t := range layout.Tools {
		n := fmt.Sprint(i + 1)
		k.Tools = append(k.Tools, key.NewBinding(key.WithKeys(n), key.WithHelp(n, strings.ToLower(t.Label))))
	}
	return k
}

func (k editKeyMap) ShortHelp() []key.Binding {
	return append(k.KeyMap.ShortHelp(), k.Click, k.Help, k.Quit)
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return append(k.KeyMap.FullHelp(),
		k.Tools,
		[]key.Binding{k.CursorUp, k.CursorDown, k.CursorLeft, k.CursorRight, k.Click},
		[]key.Binding{k.AddRow, k.RemoveRow, k.AddCol, k.RemoveCol},
		[]key.Binding{k.ToolWider, k.ToolNarrow, k.ToolTaller, k.ToolShort, k.Clear, k.Quit},
	)
}

// =============================================================================
// EditModel - Interactive layout editor
// =============================================================================

// EditModel is the bubbletea model around an editor session.
type EditModel struct {
	ID     string
	Editor *editor.Editor
	Bounds layout.Bounds

	keys    editKeyMap
	help    help.Model
	input   textinput.Model
	cursor  layout.Position
	pressed bool
	mods    editor.Mods
	status  string
	now     func() time.Time
}

// NewEditModel creates an editor view for layout id.
func NewEditModel(id string, ed *editor.Editor, bounds layout.Bounds) EditModel {
	in := textinput.New()
	in.Prompt = "seat number: "
	in.Placeholder = "blank clears"
	in.CharLimit = 16

	return EditModel{
		ID:     id,
		Editor: ed,
		Bounds: bounds,
		keys:   newEditKeyMap(ed.Keys()),
		help:   help.New(),
		input:  in,
		cursor: layout.Position{Row: 1, Col: 1},
		now:    time.Now,
	}
}

func (m EditModel) Init() tea.Cmd {
	return nil
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Editor.EditingID() != "" {
			return m.updateInput(msg)
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.status = ""
		m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m.syncInput()
}

// updateInput routes keys to the seat-number input. Only escape and enter
// reach the editor; ctrl+c still quits.
func (m EditModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.Editor.HandleKey(editor.Key{Name: msg.String(), InTextInput: true}) {
		return m.syncInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.Editor.SetDraft(m.input.Value())
	return m, cmd
}

// syncInput focuses the input while a seat is being edited.
func (m EditModel) syncInput() (tea.Model, tea.Cmd) {
	editing := m.Editor.EditingID() != ""
	switch {
	case editing && !m.input.Focused():
		m.input.SetValue(m.Editor.Draft())
		m.input.CursorEnd()
		return m, m.input.Focus()
	case !editing && m.input.Focused():
		m.input.Blur()
		m.input.Reset()
	}
	return m, nil
}

func (m *EditModel) handleKey(msg tea.KeyMsg) {
	st := m.Editor.State()
	for i, b := range m.keys.Tools {
		if key.Matches(msg, b) {
			_, size := m.Editor.Tool()
			m.Editor.SetTool(layout.Tools[i].Type, size)
			return
		}
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.CursorUp):
		m.moveCursor(st, -1, 0)
	case key.Matches(msg, m.keys.CursorDown):
		m.moveCursor(st, 1, 0)
	case key.Matches(msg, m.keys.CursorLeft):
		m.moveCursor(st, 0, -1)
	case key.Matches(msg, m.keys.CursorRight):
		m.moveCursor(st, 0, 1)
	case key.Matches(msg, m.keys.Click):
		m.Editor.ClickCell(m.cursor.Row, m.cursor.Col, 0)
	case key.Matches(msg, m.keys.AddRow):
		m.resize(st.Dimensions.Rows+1, st.Dimensions.Cols)
	case key.Matches(msg, m.keys.RemoveRow):
		m.resize(st.Dimensions.Rows-1, st.Dimensions.Cols)
	case key.Matches(msg, m.keys.AddCol):
		m.resize(st.Dimensions.Rows, st.Dimensions.Cols+1)
	case key.Matches(msg, m.keys.RemoveCol):
		m.resize(st.Dimensions.Rows, st.Dimensions.Cols-1)
	case key.Matches(msg, m.keys.ToolWider):
		m.resizeTool(0, 1)
	case key.Matches(msg, m.keys.ToolNarrow):
		m.resizeTool(0, -1)
	case key.Matches(msg, m.keys.ToolTaller):
		m.resizeTool(1, 0)
	case key.Matches(msg, m.keys.ToolShort):
		m.resizeTool(-1, 0)
	case key.Matches(msg, m.keys.Clear):
		m.Editor.ClearAll()
	default:
		m.Editor.HandleKey(editor.Key{Name: msg.String()})
	}
}

func (m *EditModel) moveCursor(st layout.State, dRow, dCol int) {
	m.cursor = layout.Position{
		Row: min(max(m.cursor.Row+dRow, 1), st.Dimensions.Rows),
		Col: min(max(m.cursor.Col+dCol, 1), st.Dimensions.Cols),
	}
}

func (m *EditModel) resize(rows, cols int) {
	if err := errors.ValidateDimensions(rows, cols, m.Bounds); err != nil {
		m.status = errors.UserMessage(err)
		return
	}
	m.Editor.SetDimensions(rows, cols)
	m.moveCursor(m.Editor.State(), 0, 0)
}

func (m *EditModel) resizeTool(dRows, dCols int) {
	t, size := m.Editor.Tool()
	size = layout.Size{RowSpan: max(size.RowSpan, 1) + dRows, ColSpan: max(size.ColSpan, 1) + dCols}
	if err := errors.ValidateToolSize(size); err != nil {
		m.status = errors.UserMessage(err)
		return
	}
	m.Editor.SetTool(t, size)
}

// cellAt maps a terminal position to a grid cell. Positions left of or
// above the grid map to row or column 0.
func cellAt(x, y int) (row, col int) {
	row = max(y-gridTop+1, 0)
	if x >= gutter {
		col = (x-gutter)/cellWidth + 1
	}
	return row, col
}

func mouseMods(msg tea.MouseMsg) editor.Mods {
	var mods editor.Mods
	if msg.Shift {
		mods |= editor.ModShift
	}
	if msg.Ctrl {
		mods |= editor.ModCtrl
	}
	if msg.Alt {
		mods |= editor.ModAlt
	}
	return mods
}

func (m *EditModel) handleMouse(msg tea.MouseMsg) {
	row, col := cellAt(msg.X, msg.Y)
	now := m.now()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		dims := m.Editor.State().Dimensions
		if row < 1 || col < 1 || row > dims.Rows || col > dims.Cols {
			return
		}
		m.pressed = true
		m.mods = mouseMods(msg)
		m.cursor = layout.Position{Row: row, Col: col}
		m.status = ""
		m.Editor.PointerDown(row, col, now)
	case tea.MouseActionMotion:
		if m.pressed {
			m.Editor.PointerMove(row, col, now)
		}
	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		dragged := m.Editor.Dragging()
		if m.Editor.PointerUp(row, col, m.mods, now) == editor.GestureDrop {
			if el, ok := m.Editor.State().Find(dragged); ok && el.Position != (layout.Position{Row: row, Col: col}) {
				m.status = "cannot move there"
			}
		}
	}
}

func (m EditModel) View() string {
	var b strings.Builder
	st := m.Editor.State()

	b.WriteString(StyleTitle.Render("seatmap") + " " + StyleValue.Render(m.ID) +
		StyleDim.Render(fmt.Sprintf("  %d×%d", st.Dimensions.Rows, st.Dimensions.Cols)))
	b.WriteString("\n")
	b.WriteString(m.toolbar())
	b.WriteString("\n")

	view := render.View{
		Selected: m.Editor.Selected(),
		Editing:  m.Editor.EditingID(),
		Draft:    m.Editor.Draft(),
	}
	b.WriteString(renderGrid(render.Grid(st, view), &m.cursor))

	if orphans := render.Orphans(st); len(orphans) > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d element(s) outside the grid", len(orphans))))
		b.WriteString("\n")
	}
	b.WriteString(statsLine(render.Summarize(st)))
	b.WriteString("\n")

	if m.input.Focused() {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m EditModel) toolbar() string {
	current, size := m.Editor.Tool()
	parts := make([]string, 0, len(layout.Tools)+2)
	for i, t := range layout.Tools {
		label := fmt.Sprintf("%d %s", i+1, t.Label)
		if t.Type == current {
			parts = append(parts, toolActiveStyle.Render(label))
		} else {
			parts = append(parts, toolStyle.Render(label))
		}
	}
	parts = append(parts, StyleDim.Render(fmt.Sprintf("%d×%d", max(size.RowSpan, 1), max(size.ColSpan, 1))))

	var history []string
	if m.Editor.CanUndo() {
		history = append(history, "undo")
	}
	if m.Editor.CanRedo() {
		history = append(history, "redo")
	}
	if len(history) > 0 {
		parts = append(parts, StyleDim.Render(strings.Join(history, "/")))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// =============================================================================
// Grid Rendering
// =============================================================================

// renderGrid draws cells as fixed-width text with a row gutter and a
// column header. A non-nil cursor underlines that cell.
func renderGrid(cells [][]render.Cell, cursor *layout.Position) string {
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", gutter))
	if len(cells) > 0 {
		for col := range cells[0] {
			b.WriteString(StyleDim.Render(fmt.Sprintf("%-*d", cellWidth, col+1)))
		}
	}
	b.WriteString("\n")

	for _, row := range cells {
		for i, c := range row {
			if i == 0 {
				b.WriteString(StyleDim.Render(fmt.Sprintf("%*d ", gutter-1, c.Row)))
			}
			atCursor := cursor != nil && cursor.Row == c.Row && cursor.Col == c.Col
			b.WriteString(renderCell(c, atCursor))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(c render.Cell, atCursor bool) string {
	text := "·"
	style := cellEmptyStyle
	if !c.Empty() {
		style = cellStyles[c.Type]
		text = "░"
		if c.Anchor {
			text = c.Label
			if text == "" {
				text = "S"
			}
		}
		if c.Editing {
			text = c.Label + "_"
		}
		if c.Disabled {
			style = style.Strikethrough(true).Foreground(colorDim)
		}
		if c.Selected {
			style = style.Reverse(true)
		}
	}
	if atCursor {
		style = style.Underline(true)
	}
	return style.Width(cellWidth-1).Align(lipgloss.Center).Render(truncate(text, cellWidth-1)) + " "
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func statsLine(s render.Stats) string {
	parts := []string{
		fmt.Sprintf("%d seats", s.Seats),
		fmt.Sprintf("%d enabled", s.EnabledSeats),
	}
	for _, t := range layout.Tools[1:] {
		if n := s.ByType[t.Type]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(t.Label)))
		}
	}
	return StyleDim.Render(strings.Join(parts, " · "))
}

// statsTable renders layout statistics as a bordered table.
func statsTable(s render.Stats) string {
	rows := make([][]string, 0, len(layout.Tools)+3)
	for _, t := range layout.Tools {
		rows = append(rows, []string{t.Label, fmt.Sprint(s.ByType[t.Type])})
	}
	rows = append(rows,
		[]string{"Enabled seats", fmt.Sprint(s.EnabledSeats)},
		[]string{"Numbered seats", fmt.Sprint(s.NumberedSeats)},
		[]string{"Outside grid", fmt.Sprint(s.Orphans)},
	)

	return newTable([]string{"Element", "Count"}, rows, func(_, col int) lipgloss.Style {
		if col == 1 {
			return StyleNumber.Align(lipgloss.Right)
		}
		return lipgloss.NewStyle()
	}).Render()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
