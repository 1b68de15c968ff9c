package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/loomui/celbridge/bridge"
	"github.com/loomui/celbridge/guest"
	"github.com/loomui/celbridge/host"
)

var playWasmFile string
var playTag string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Drive a WASM implementation interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(newPlayModel(playWasmFile, playTag), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	attrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type playState int

const (
	statePickAction playState = iota
	stateInputAttr
)

type playModel struct {
	err      error
	filename string
	tag      string

	g       *guest.Guest
	docA    *host.Document
	docB    *host.Document
	current *host.Document
	el      *host.Element

	inputs   []textinput.Model
	focusIdx int
	state    playState
	log      []string
}

type guestLoadedMsg struct {
	err  error
	g    *guest.Guest
	docA *host.Document
	docB *host.Document
	el   *host.Element
	sink *failureSink
}

// failureSink defers wiring the documents' failure channel until the model
// owns them; dispatch only ever happens from Update.
type failureSink struct {
	fn func(error)
}

func newPlayModel(filename, tag string) *playModel {
	return &playModel{
		filename: filename,
		tag:      tag,
		state:    statePickAction,
	}
}

func (m *playModel) Init() tea.Cmd {
	return m.loadGuest
}

func (m *playModel) loadGuest() tea.Msg {
	ctx := context.Background()

	g, err := loadGuest(ctx, m.filename)
	if err != nil {
		return guestLoadedMsg{err: err}
	}

	class, err := bridge.Define(g)
	if err != nil {
		g.Close(ctx)
		return guestLoadedMsg{err: err}
	}

	reg := host.NewRegistry()
	if err := reg.Define(m.tag, class); err != nil {
		g.Close(ctx)
		return guestLoadedMsg{err: err}
	}

	sink := &failureSink{}
	msg := guestLoadedMsg{g: g, sink: sink}
	onFailure := host.WithFailureHandler(func(err error) {
		if sink.fn != nil {
			sink.fn(err)
		}
	})
	msg.docA = host.NewDocument(reg, onFailure)
	msg.docB = host.NewDocument(reg, onFailure)

	el, err := msg.docA.CreateElement(m.tag)
	if err != nil {
		g.Close(ctx)
		return guestLoadedMsg{err: err}
	}
	msg.el = el
	return msg
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case guestLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		msg.sink.fn = func(err error) {
			m.append(errorStyle.Render(fmt.Sprintf("failure: %v", err)))
		}
		m.g = msg.g
		m.docA = msg.docA
		m.docB = msg.docB
		m.current = msg.docA
		m.el = msg.el
		m.append(eventStyle.Render("guest loaded"))
		return m, nil

	case tea.KeyMsg:
		if m.state == stateInputAttr {
			return m.updateInputAttr(msg)
		}
		return m.updateActions(msg)
	}
	return m, nil
}

func (m *playModel) updateActions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg.String() {
	case "ctrl+c", "q":
		if m.g != nil {
			m.g.Close(ctx)
		}
		return m, tea.Quit

	case "m":
		if m.el == nil {
			return m, nil
		}
		if err := m.current.Mount(ctx, m.el); err != nil {
			m.append(errorStyle.Render(err.Error()))
		} else {
			m.append(eventStyle.Render("mounted"))
		}

	case "u":
		if m.el == nil {
			return m, nil
		}
		if err := m.current.Unmount(ctx, m.el); err != nil {
			m.append(errorStyle.Render(err.Error()))
		} else {
			m.append(eventStyle.Render("unmounted"))
		}

	case "a":
		if m.el == nil {
			return m, nil
		}
		target := m.docB
		if m.current == m.docB {
			target = m.docA
		}
		if err := target.Adopt(ctx, m.el); err != nil {
			m.append(errorStyle.Render(err.Error()))
		} else {
			m.current = target
			m.append(eventStyle.Render("adopted into other document"))
		}

	case "s":
		if m.el == nil {
			return m, nil
		}
		name := textinput.New()
		name.Prompt = "attribute: "
		name.Width = 30
		name.Focus()
		value := textinput.New()
		value.Prompt = "value: "
		value.Width = 30
		m.inputs = []textinput.Model{name, value}
		m.focusIdx = 0
		m.state = stateInputAttr
	}
	return m, nil
}

func (m *playModel) updateInputAttr(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = statePickAction
		m.inputs = nil
		return m, nil

	case "tab":
		m.inputs[m.focusIdx].Blur()
		m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
		m.inputs[m.focusIdx].Focus()
		return m, nil

	case "enter":
		name := m.inputs[0].Value()
		value := m.inputs[1].Value()
		m.state = statePickAction
		m.inputs = nil
		if name == "" {
			return m, nil
		}
		m.el.SetAttribute(context.Background(), name, value)
		m.append(fmt.Sprintf("set %s=%s", attrStyle.Render(name), value))
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *playModel) append(line string) {
	m.log = append(m.log, line)
	if len(m.log) > 12 {
		m.log = m.log[len(m.log)-12:]
	}
}

func (m *playModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.el == nil {
		return "Loading guest..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("celbridge"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	doc := "A"
	if m.current == m.docB {
		doc = "B"
	}
	state := "unmounted"
	if m.el.IsMounted() {
		state = "mounted"
	}
	fmt.Fprintf(&b, "<%s> in document %s, %s\n", m.tag, doc, state)

	observed := m.g.ObservedAttributes()
	if len(observed) > 0 {
		b.WriteString("observed: ")
		b.WriteString(attrStyle.Render(strings.Join(observed, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, line := range m.log {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.state {
	case stateInputAttr:
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("tab next field • enter apply • esc back"))
	default:
		b.WriteString(helpStyle.Render("m mount • u unmount • a adopt • s set attribute • q quit"))
	}

	return b.String()
}

func init() {
	playCmd.Flags().StringVar(&playWasmFile, "wasm", "", "path to the guest wasm module")
	playCmd.Flags().StringVar(&playTag, "tag", "x-playground", "tag to register the class under")
	playCmd.MarkFlagRequired("wasm")
	rootCmd.AddCommand(playCmd)
}
