package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/particlespace/internal/dynamo"
	"github.com/san-kum/particlespace/internal/physics"
)

const (
	historyLen      = 120
	maxStepsPerTick = 64
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Options configures the live viewer.
type Options struct {
	Title  string
	Bounds dynamo.Bounds
	// MaxSpeed sets the top of the speed colour scale in recordings.
	MaxSpeed float64
	// G and MinDistance enable the potential energy readout when G > 0.
	G           float64
	MinDistance float64
	// Reset builds a fresh simulation for the R key. Nil disables reset.
	Reset   func() (*dynamo.Simulation, error)
	GIFPath string
	// Width and Height are the canvas size in terminal cells.
	Width, Height int
}

// Model is the Bubble Tea model of the live viewer.
type Model struct {
	sim     *dynamo.Simulation
	opts    Options
	canvas  *Canvas
	running bool

	stepsPerTick int
	energy       []float64

	showHelp  bool
	recording bool
	frames    []*image.Paletted
	status    string
	err       error
}

func NewModel(sim *dynamo.Simulation, opts Options) Model {
	if opts.Width <= 0 {
		opts.Width = 60
	}
	if opts.Height <= 0 {
		opts.Height = 25
	}
	if opts.Title == "" {
		opts.Title = sim.Strategy().Name()
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "particlespace.gif"
	}
	m := Model{
		sim:          sim,
		opts:         opts,
		canvas:       NewCanvas(opts.Width, opts.Height),
		running:      true,
		stepsPerTick: 1,
	}
	m.sample()
	m.draw()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.advance(1)
			}
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "r":
			m.reset()
		case "t":
			NextTheme()
			m.status = "theme: " + CurrentTheme.Name
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}

	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, tick()
	}

	return m, nil
}

func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		m.sim.Step()
	}
	m.sample()
	m.draw()
	if m.recording {
		m.frames = append(m.frames, captureFrame(m.sim.Particles(), m.opts.Bounds, m.opts.MaxSpeed))
	}
}

func (m *Model) reset() {
	if m.opts.Reset == nil {
		return
	}
	sim, err := m.opts.Reset()
	if err != nil {
		m.err = err
		return
	}
	m.sim = sim
	m.err = nil
	m.energy = m.energy[:0]
	m.sample()
	m.draw()
	m.status = "reset"
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		m.status = "recording"
		return
	}
	m.recording = false
	if err := saveGIF(m.opts.GIFPath, m.frames); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.opts.GIFPath)
	m.frames = nil
}

func (m *Model) totalEnergy(ps []dynamo.Particle) float64 {
	if m.opts.G > 0 {
		return physics.TotalEnergy(ps, m.opts.G, m.opts.MinDistance)
	}
	return physics.KineticEnergy(ps)
}

func (m *Model) sample() {
	m.energy = append(m.energy, m.totalEnergy(m.sim.Particles()))
	if len(m.energy) > historyLen {
		m.energy = m.energy[len(m.energy)-historyLen:]
	}
}

// project maps a world position onto canvas pixels with y pointing up.
func (m *Model) project(x, y float64) (int, int) {
	pw, ph := m.canvas.PixelSize()
	ext := m.opts.Bounds.Extent()
	u := (x - m.opts.Bounds.Min.X) / ext.X
	v := (y - m.opts.Bounds.Min.Y) / ext.Y
	return int(u * float64(pw-1)), int((1 - v) * float64(ph-1))
}

func (m *Model) draw() {
	m.canvas.Clear()
	pw, _ := m.canvas.PixelSize()
	scale := float64(pw-1) / m.opts.Bounds.Extent().X
	for _, p := range m.sim.Particles() {
		if !p.IsValid() {
			continue
		}
		x, y := m.project(p.Position.X, p.Position.Y)
		m.canvas.DrawCircle(x, y, int(math.Round(p.Radius()*scale)))
	}
}

func (m Model) View() string {
	st := themed(CurrentTheme)

	title := GradientText(strings.ToUpper(m.opts.Title), CurrentTheme.Primary, CurrentTheme.Secondary)
	status := st.running.Render("RUNNING")
	if !m.running {
		status = st.paused.Render("PAUSED")
	}
	if m.recording {
		status += " " + st.recording.Render(fmt.Sprintf("REC %d", len(m.frames)))
	}

	ps := m.sim.Particles()
	mom := physics.Momentum(ps)
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Left, st.label.Render(label), st.value.Render(value))
	}

	var b strings.Builder
	b.WriteString(st.header.Render(title) + "\n")
	b.WriteString(status + "\n\n")
	b.WriteString(row("Frame", fmt.Sprintf("%d", m.sim.Frame())) + "\n")
	b.WriteString(row("Particles", fmt.Sprintf("%d", len(ps))) + "\n")
	b.WriteString(row("Kinetic", fmt.Sprintf("%.6g", physics.KineticEnergy(ps))) + "\n")
	if m.opts.G > 0 {
		b.WriteString(row("Potential", fmt.Sprintf("%.6g", physics.PotentialEnergy(ps, m.opts.G, m.opts.MinDistance))) + "\n")
	}
	b.WriteString(row("|P|", fmt.Sprintf("%.6g", math.Hypot(mom.X, mom.Y))) + "\n")
	b.WriteString(row("Steps/tick", fmt.Sprintf("%d", m.stepsPerTick)) + "\n")
	b.WriteString(row("Theme", CurrentTheme.Name) + "\n")

	if chart := Chart(m.energy, 30, 6, "total energy"); chart != "" {
		b.WriteString(st.graph.Render(chart) + "\n")
	} else {
		b.WriteString("\n" + SparklineChart(m.energy, 30) + "\n")
	}

	if m.err != nil {
		b.WriteString(st.errText.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(st.value.Render(m.status) + "\n")
	}

	if m.showHelp {
		b.WriteString(st.keyHint.Render("space pause  s step  +/- speed\nr reset  t theme  g record gif\n? help  q quit"))
	} else {
		b.WriteString(st.keyHint.Render("? help  q quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		st.canvas.Render(m.canvas.String()),
		st.stats.Render(b.String()),
	)
}

// Run opens the live viewer and blocks until the user quits.
func Run(sim *dynamo.Simulation, opts Options) error {
	p := tea.NewProgram(NewModel(sim, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
