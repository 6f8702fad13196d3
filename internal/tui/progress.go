package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/fscache/pkg/fscache"
)

type progressMsg struct {
	title       string
	done, total int
}

type finishMsg struct{}

// progressModel draws a spinner, the operation title and a done/total counter.
type progressModel struct {
	spinner     spinner.Model
	title       string
	done, total int
	finished    bool
}

func newProgressModel() progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return progressModel{spinner: s}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.title, m.done, m.total = msg.title, msg.done, msg.total
		return m, nil
	case finishMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.finished || m.title == "" {
		return ""
	}
	return fmt.Sprintf("%s %s %s\n", m.spinner.View(), m.title, MutedStyle.Render(counter(m.done, m.total)))
}

func counter(done, total int) string {
	return fmt.Sprintf("%d/%d", done, total)
}

// Progress shows bulk operation progress on out. Interactive progress is an
// animated spinner; otherwise a line is printed when an operation starts and
// when it completes.
type Progress struct {
	out         io.Writer
	interactive bool

	program *tea.Program
	stopped chan struct{}

	mu    sync.Mutex
	title string
}

// NewProgress starts a progress display. Call Finish when the work is over.
func NewProgress(out io.Writer, interactive bool) *Progress {
	p := &Progress{out: out, interactive: interactive}
	if interactive {
		p.program = tea.NewProgram(newProgressModel(), tea.WithOutput(out), tea.WithInput(nil))
		p.stopped = make(chan struct{})
		go func() {
			defer close(p.stopped)
			p.program.Run() //nolint:errcheck
		}()
	}
	return p
}

// Func adapts the display to the engine's progress callback.
func (p *Progress) Func() fscache.ProgressFunc {
	return p.Report
}

// Report records that done of total files are processed under title.
func (p *Progress) Report(title string, done, total int) {
	if p.interactive {
		p.program.Send(progressMsg{title: title, done: done, total: total})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if title != p.title {
		p.title = title
		fmt.Fprintf(p.out, "%s...\n", title)
	}
	if total > 0 && done == total {
		fmt.Fprintf(p.out, "%s %s %s\n", SymbolCheck, title, counter(done, total))
	}
}

// Finish stops the display and prints the outcome when err is not nil.
func (p *Progress) Finish(err error) {
	if p.interactive {
		p.program.Send(finishMsg{})
		<-p.stopped
	}
	if err != nil {
		fmt.Fprintln(p.out, ErrorStyle.Render(SymbolCross+" "+err.Error()))
	}
}
