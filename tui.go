package main

import (
	"context"
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultPenWidth = 2.0
	minPenWidth     = 1.0
	maxPenWidth     = 12.0
)

type model struct {
	width  int
	height int
	ready  bool

	clock    *LoopClock
	gen      int
	sampler  *PathSampler
	renderer *TerminalRenderer
	book     *FragmentBook
	byFrame  map[int][]DrawingFragment
	ambience Ambience
	author   string

	frame FrameRender
	curve Curve

	pen    penState
	status string
}

// penState is the annotation being drawn while a frame is caught. While the
// pen is down the last stroke is the one being extended.
type penState struct {
	cursor   StrokePoint
	down     bool
	eraser   bool
	colorIdx int
	width    float64
	strokes  []Stroke
}

// tickMsg is one display refresh. gen is the tick generation it was
// requested under; catching a frame bumps the generation so a refresh that
// was already in flight is dropped.
type tickMsg struct {
	gen int
	at  time.Time
}

func newPlayerModel(book *FragmentBook, ambience Ambience, author string) model {
	if ambience == nil {
		ambience = silentAmbience{}
	}

	Log.Info().Msg("Creating player model")

	return model{
		clock:    NewLoopClock(nil, nil),
		sampler:  NewPathSampler(NewSimplexNoise(NoiseSeed)),
		renderer: NewTerminalRenderer(NewShimmerGenerator(NoiseSeed)),
		book:     book,
		byFrame:  book.ByFrame(),
		ambience: ambience,
		author:   author,
		frame:    FrameRender{Index: 1},
		pen:      penState{width: defaultPenWidth},
		status:   "space: catch this frame",
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.gen)
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.pen.cursor = m.clampCursor(m.pen.cursor)
		m = m.show(m.frame)
		Log.Info().Int("width", m.width).Int("height", m.height).Msg("Window resized")

	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if fr, ok := m.clock.Tick(msg.at); ok {
			m = m.show(fr)
		}
		if m.clock.Running() {
			return m, tickCmd(m.gen)
		}

	case tea.KeyMsg:
		if _, caught := m.clock.FrozenAt(); caught {
			return m.updateCaught(msg)
		}
		return m.updateLive(msg)
	}

	return m, nil
}

func (m model) updateLive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		Log.Info().Str("key", msg.String()).Msg("User requested quit")
		m.clock.Close()
		return m, tea.Quit
	case " ":
		return m.catch(m.frame.Elapsed), nil
	}
	return m, nil
}

func (m model) updateCaught(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.clock.Close()
		return m, tea.Quit
	case "esc":
		m.status = "annotation discarded"
		return m.resume()
	case "enter":
		return m.submit()
	case "up", "k":
		m = m.moveCursor(0, -1)
	case "down", "j":
		m = m.moveCursor(0, 1)
	case "left", "h":
		m = m.moveCursor(-1, 0)
	case "right", "l":
		m = m.moveCursor(1, 0)
	case "d", " ":
		if m.pen.down {
			m.pen.down = false
		} else {
			m = m.penDown()
		}
	case "e":
		m.pen.eraser = !m.pen.eraser
		m = m.restroke()
	case "c":
		m.pen.colorIdx = (m.pen.colorIdx + 1) % len(inkPalette)
		m = m.restroke()
	case "+", "=":
		m.pen.width = math.Min(maxPenWidth, m.pen.width+1)
		m = m.restroke()
	case "-":
		m.pen.width = math.Max(minPenWidth, m.pen.width-1)
		m = m.restroke()
	case ",":
		return m.catch(LoopPhase(m.frame.Elapsed - FrameInterval)), nil
	case ".":
		return m.catch(LoopPhase(m.frame.Elapsed + FrameInterval)), nil
	}
	return m, nil
}

// catch freezes the loop at elapsed and invalidates the pending tick.
func (m model) catch(elapsed time.Duration) model {
	m.gen++
	fr, ok := m.clock.Freeze(elapsed)
	if !ok {
		return m
	}
	if len(m.pen.strokes) == 0 && !m.pen.down {
		w, h := m.surface()
		m.pen.cursor = StrokePoint{X: math.Round(w / 2), Y: math.Round(h / 2)}
	}
	m = m.show(fr)
	m.status = fmt.Sprintf("caught frame %d: arrows move, d pen, e eraser, c color, enter save, esc cancel", fr.Index)
	Log.Debug().Int("frame", fr.Index).Dur("elapsed", fr.Elapsed).Msg("Caught frame")
	return m
}

func (m model) resume() (tea.Model, tea.Cmd) {
	m.pen = penState{width: m.pen.width, colorIdx: m.pen.colorIdx}
	m.gen++
	m.clock.Resume()
	return m, tickCmd(m.gen)
}

func (m model) submit() (tea.Model, tea.Cmd) {
	m.pen.down = false
	if len(m.pen.strokes) == 0 {
		m.status = "nothing drawn"
		return m.resume()
	}

	frozenAt, _ := m.clock.FrozenAt()
	w, h := m.surface()
	f := NewFragment(frozenAt, m.author, m.pen.strokes, w, h)
	if m.book.Save(f) {
		m.byFrame = m.book.ByFrame()
		m.status = fmt.Sprintf("saved annotation on frame %d", f.FrameNumber)
	} else {
		m.status = "annotation could not be saved"
	}
	return m.resume()
}

func (m model) penDown() model {
	m.pen.down = true
	m.pen.strokes = append(m.pen.strokes, Stroke{
		Points:      []StrokePoint{m.pen.cursor},
		Color:       inkPalette[m.pen.colorIdx],
		StrokeWidth: m.pen.width,
		IsEraser:    m.pen.eraser,
	})
	return m
}

// restroke starts a new stroke when the pen settings change mid-stroke.
func (m model) restroke() model {
	if !m.pen.down {
		return m
	}
	return m.penDown()
}

func (m model) moveCursor(dx, dy float64) model {
	m.pen.cursor = m.clampCursor(StrokePoint{X: m.pen.cursor.X + dx, Y: m.pen.cursor.Y + dy})
	if m.pen.down && len(m.pen.strokes) > 0 {
		last := len(m.pen.strokes) - 1
		stroke := m.pen.strokes[last]
		points := make([]StrokePoint, len(stroke.Points), len(stroke.Points)+1)
		copy(points, stroke.Points)
		stroke.Points = append(points, m.pen.cursor)
		strokes := make([]Stroke, len(m.pen.strokes))
		copy(strokes, m.pen.strokes)
		strokes[last] = stroke
		m.pen.strokes = strokes
	}
	return m
}

func (m model) clampCursor(p StrokePoint) StrokePoint {
	w, h := m.surface()
	p.X = math.Max(0, math.Min(w-1, p.X))
	p.Y = math.Max(0, math.Min(h-1, p.Y))
	return p
}

// show runs the render pipeline for fr at the current surface size.
func (m model) show(fr FrameRender) model {
	m.frame = fr
	w, h := m.surface()
	if w <= 0 || h <= 0 {
		return m
	}
	points := m.sampler.GeneratePoints(fr.Elapsed, w, h)
	m.curve = BuildCurve(points)
	m.ambience.SetLine(points, h)
	metrics.framesRendered.Add(context.Background(), 1)
	return m
}

func (m model) canvasSize() (int, int) {
	rows := m.height - hudHeight - 1
	if rows < 1 {
		rows = 1
	}
	return m.width, rows
}

func (m model) surface() (float64, float64) {
	return SurfaceSize(m.canvasSize())
}

func (m model) View() string {
	if !m.ready || m.width == 0 {
		return "Initializing noise loop..."
	}

	_, caught := m.clock.FrozenAt()
	scene := Scene{
		Curve:     m.curve,
		Fragments: m.byFrame[m.frame.Index],
		Elapsed:   m.frame.Elapsed,
	}
	if caught {
		scene.Pending = m.pen.strokes
		cursor := m.pen.cursor
		scene.Cursor = &cursor
	}

	hud := RenderHUD(HUDState{
		Caught:    caught,
		Frame:     m.frame.Index,
		Elapsed:   m.frame.Elapsed,
		Fragments: len(scene.Fragments),
		PenColor:  inkPalette[m.pen.colorIdx],
		PenWidth:  m.pen.width,
		PenDown:   m.pen.down,
		Eraser:    m.pen.eraser,
		Status:    m.status,
	}, m.width)

	cols, rows := m.canvasSize()
	canvas := m.renderer.Render(scene, cols, rows)

	footer := "q quit | space catch frame | 10 fps | 600 frame loop"
	if caught {
		footer = "arrows move | d pen | e eraser | c color | +/- width | ,/. scrub | enter save | esc cancel"
	}

	return fmt.Sprintf("%s\n%s\n%s", hud, canvas, faintStyle.Render(truncateString(footer, m.width)))
}
