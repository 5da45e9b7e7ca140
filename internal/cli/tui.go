package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/geometry"
	"github.com/longplay45/swissgrid/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickerOption is one selectable entry in a picker list.
type pickerOption struct {
	label string
	value string
	hint  string
}

// pickerModel is the bubbletea model for a single-choice list.
type pickerModel struct {
	Title    string
	Options  []pickerOption
	Cursor   int
	Selected *pickerOption
}

func newPickerModel(title string, options []pickerOption) pickerModel {
	return pickerModel{Title: title, Options: options}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Options)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Options[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-14s", cursor, opt.label)
		if opt.hint != "" {
			line += "  " + listDimStyle.Render(opt.hint)
		}

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// runPicker shows a single-choice list and returns the selected value.
func runPicker(title string, options []pickerOption) (string, error) {
	p := tea.NewProgram(newPickerModel(title, options))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	fm, ok := finalModel.(pickerModel)
	if !ok || fm.Selected == nil {
		return "", errors.New(errors.ErrCodeCanceled, "selection canceled")
	}
	return fm.Selected.value, nil
}

// interactiveCommand creates the interactive command, which walks through
// the grid parameters with pickers and then generates the sheets.
func (c *CLI) interactiveCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Pick grid parameters interactively and generate sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.runInteractive(cmd, output)
			if errors.Is(err, errors.ErrCodeCanceled) {
				printWarning("Canceled")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default current directory)")

	return cmd
}

func (c *CLI) runInteractive(cmd *cobra.Command, output string) error {
	format, err := runPicker("Page Format", formatPickerOptions())
	if err != nil {
		return err
	}

	orientation, err := runPicker("Orientation", []pickerOption{
		{label: "portrait", value: "portrait", hint: "taller than wide"},
		{label: "landscape", value: "landscape", hint: "wider than tall"},
	})
	if err != nil {
		return err
	}

	grid, err := runPicker("Grid Division", gridPickerOptions())
	if err != nil {
		return err
	}

	method, err := runPicker("Margin Method", marginPickerOptions())
	if err != nil {
		return err
	}

	cols, rows, err := parseGrid(grid)
	if err != nil {
		return err
	}
	m, err := strconv.Atoi(method)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Format:       format,
		Orientation:  orientation,
		Cols:         cols,
		Rows:         rows,
		MarginMethod: m,
	}
	return c.runGenerate(cmd.Context(), opts, output, "", false)
}

func formatPickerOptions() []pickerOption {
	names := geometry.FormatNames()
	opts := make([]pickerOption, 0, len(names))
	for _, name := range names {
		opt := pickerOption{label: name, value: name}
		f, err := geometry.ParseFormat(name)
		if err == nil {
			if w, h, err := geometry.PageSize(f, geometry.Portrait); err == nil {
				opt.hint = fmt.Sprintf("%.0f × %.0f pt", w, h)
			}
		}
		opts = append(opts, opt)
	}
	return opts
}

func gridPickerOptions() []pickerOption {
	divisions := []string{"3x3", "4x4", "6x6", "6x9", "9x9", "12x9", "12x12"}
	opts := make([]pickerOption, 0, len(divisions))
	for _, d := range divisions {
		opts = append(opts, pickerOption{label: d, value: d})
	}
	return opts
}

func marginPickerOptions() []pickerOption {
	opts := make([]pickerOption, 0, 3)
	for m := 1; m <= 3; m++ {
		opts = append(opts, pickerOption{
			label: strconv.Itoa(m),
			value: strconv.Itoa(m),
			hint:  geometry.MarginMethod(m).Label(),
		})
	}
	return opts
}
