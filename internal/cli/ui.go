package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/seatmap/pkg/availability"
	"github.com/matzehuels/seatmap/pkg/layout"
)

// stdout receives status lines. Command payloads (exported layouts, JSON)
// go to the cobra output writer instead.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // ids, selection, counts
	colorGreen  = lipgloss.Color("35")  // saved, available
	colorYellow = lipgloss.Color("220") // orphans, unpaid, driver
	colorRed    = lipgloss.Color("167") // booked
	colorBlue   = lipgloss.Color("75")  // commands, wc, current ticket
	colorWhite  = lipgloss.Color("255") // seats
	colorGray   = lipgloss.Color("245") // doors, table headers
	colorDim    = lipgloss.Color("240") // empty cells, timestamps
)

// =============================================================================
// Text Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Domain Styles
// =============================================================================

// Grid cells by element type.
var (
	cellEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	cellStyles     = map[layout.ElementType]lipgloss.Style{
		layout.TypeSeat:   lipgloss.NewStyle().Foreground(colorWhite).Bold(true),
		layout.TypeWC:     lipgloss.NewStyle().Foreground(colorBlue),
		layout.TypeDriver: lipgloss.NewStyle().Foreground(colorYellow),
		layout.TypeDoor:   lipgloss.NewStyle().Foreground(colorGray),
	}
	toolActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	toolStyle       = lipgloss.NewStyle().Foreground(colorGray)
)

var statusStyles = map[availability.Status]lipgloss.Style{
	availability.StatusAvailable:     lipgloss.NewStyle().Foreground(colorGreen),
	availability.StatusSelected:      lipgloss.NewStyle().Foreground(colorCyan),
	availability.StatusBooked:        lipgloss.NewStyle().Foreground(colorRed),
	availability.StatusUnpaid:        lipgloss.NewStyle().Foreground(colorYellow),
	availability.StatusCurrentTicket: lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Tables
// =============================================================================

// newTable builds a rounded table with the shared header style. cell
// styles body cells; nil leaves them plain.
func newTable(headers []string, rows [][]string, cell func(row, col int) lipgloss.Style) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if cell == nil {
				return lipgloss.NewStyle()
			}
			return cell(row, col)
		})
}

// =============================================================================
// Status Lines
// =============================================================================

func statusLine(icon string, iconStyle lipgloss.Style, msg string) {
	fmt.Fprintln(stdout, iconStyle.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusLine(iconSuccess, styleIconSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusLine(iconWarning, styleIconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusLine(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
