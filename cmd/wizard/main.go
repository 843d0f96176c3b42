package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shubham17122001/aoi-generator/pkg/dataset"
	"github.com/shubham17122001/aoi-generator/pkg/generator"
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF79C6")).
			Background(lipgloss.Color("#282A36")).
			Padding(0, 1).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BD93F9")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

type stage int

const (
	stageInputPath stage = iota
	stageWidth
	stageHeight
	stageGenerating
	stageDone
)

type model struct {
	stage   stage
	path    textinput.Model
	width   textinput.Model
	height  textinput.Model
	spinner spinner.Model

	inputErr string
	runErr   error
	result   *generator.Result
	widthKm  float64
	heightKm float64
}

type generationDoneMsg struct {
	result *generator.Result
	err    error
}

func initialModel() model {
	path := textinput.New()
	path.Placeholder = "stations.xlsx"
	path.Focus()

	width := textinput.New()
	width.Placeholder = "8"

	height := textinput.New()
	height.Placeholder = "8"

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		stage:   stageInputPath,
		path:    path,
		width:   width,
		height:  height,
		spinner: s,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func runGeneration(path string, widthKm, heightKm float64) tea.Cmd {
	return func() tea.Msg {
		res, err := generator.Run(path, generator.Params{
			WidthKm:  widthKm,
			HeightKm: heightKm,
			Read:     dataset.DefaultReadOptions(),
		})
		return generationDoneMsg{result: res, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "q":
			if m.stage == stageDone {
				return m, tea.Quit
			}
		case "enter":
			return m.advance()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generationDoneMsg:
		m.stage = stageDone
		m.result = msg.result
		m.runErr = msg.err
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.stage {
	case stageInputPath:
		m.path, cmd = m.path.Update(msg)
	case stageWidth:
		m.width, cmd = m.width.Update(msg)
	case stageHeight:
		m.height, cmd = m.height.Update(msg)
	}
	return m, cmd
}

// advance moves to the next stage once the current input validates
func (m model) advance() (tea.Model, tea.Cmd) {
	m.inputErr = ""

	switch m.stage {
	case stageInputPath:
		if strings.TrimSpace(m.path.Value()) == "" {
			m.inputErr = "enter the path to a .xlsx or .csv file"
			return m, nil
		}
		m.stage = stageWidth
		m.path.Blur()
		return m, m.width.Focus()

	case stageWidth:
		v, err := parseDimension(m.width.Value())
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.widthKm = v
		m.stage = stageHeight
		m.width.Blur()
		return m, m.height.Focus()

	case stageHeight:
		v, err := parseDimension(m.height.Value())
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.heightKm = v
		m.stage = stageGenerating
		m.height.Blur()
		return m, tea.Batch(
			m.spinner.Tick,
			runGeneration(strings.TrimSpace(m.path.Value()), m.widthKm, m.heightKm),
		)
	}

	return m, nil
}

func parseDimension(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		v = "8"
	}
	d, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", v)
	}
	if d < generator.MinDimensionKm || d > generator.MaxDimensionKm {
		return 0, fmt.Errorf("must be between %g and %g km", generator.MinDimensionKm, generator.MaxDimensionKm)
	}
	return d, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AOI Generator"))
	b.WriteString("\n")

	switch m.stage {
	case stageInputPath:
		b.WriteString(labelStyle.Render("Input spreadsheet:"))
		b.WriteString("\n" + m.path.View() + "\n")

	case stageWidth:
		b.WriteString(labelStyle.Render("AOI width (km):"))
		b.WriteString("\n" + m.width.View() + "\n")

	case stageHeight:
		b.WriteString(labelStyle.Render("AOI height (km):"))
		b.WriteString("\n" + m.height.View() + "\n")

	case stageGenerating:
		b.WriteString(fmt.Sprintf("%s Generating KMZ and shapefile...\n", m.spinner.View()))

	case stageDone:
		if m.runErr != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Generation failed: %v", m.runErr)))
			b.WriteString("\n")
		} else {
			summary := fmt.Sprintf("Generated %d AOIs (%gx%g km)\n\nOverlay:   %s\nShapefile: %s",
				len(m.result.AOIs), m.widthKm, m.heightKm,
				m.result.Overlay.KMZPath, m.result.Shapefile.ZipPath)
			b.WriteString(boxStyle.Render(successStyle.Render(summary)))
			b.WriteString("\n")
		}
		b.WriteString(dimStyle.Render("press q to quit"))
		b.WriteString("\n")
	}

	if m.inputErr != "" {
		b.WriteString(errorStyle.Render(m.inputErr))
		b.WriteString("\n")
	}
	if m.stage < stageGenerating {
		b.WriteString(dimStyle.Render("enter to continue, esc to quit"))
		b.WriteString("\n")
	}

	return b.String()
}

func main() {
	if _, err := tea.NewProgram(initialModel()).Run(); err != nil {
		log.Fatalf("Wizard failed: %v", err)
	}
}
