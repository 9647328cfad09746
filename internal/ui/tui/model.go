package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/jenkins-stack/internal/engine"
	"github.com/imamik/jenkins-stack/internal/stack"
)

// Operation names the pass the model displays.
type Operation string

const (
	OperationUp      Operation = "up"
	OperationDestroy Operation = "destroy"
)

// RowState is the display state of one resource.
type RowState int

const (
	RowPending RowState = iota
	RowActive
	RowDone
	RowFailed
)

// Row is one resource in the progress list.
type Row struct {
	Key      string
	Kind     string
	Name     string
	Step     int
	State    RowState
	Err      error
	Duration time.Duration
}

// Model is the Bubble Tea model for the progress view.
type Model struct {
	Title     string
	Operation Operation
	Rows      []Row
	Outputs   stack.Outputs

	StartTime    time.Time
	SpinnerFrame int

	Width int
	Err   error
	Done  bool
}

// NewModel creates a model listing the resources of steps in the order the
// operation visits them.
func NewModel(title string, op Operation, steps stack.Steps) Model {
	if op == OperationDestroy {
		steps = steps.Reverse()
	}

	var rows []Row
	for i, step := range steps {
		for _, res := range step {
			rows = append(rows, Row{
				Key:  res.Key,
				Kind: res.Object.GetObjectKind().GroupVersionKind().Kind,
				Name: res.Object.GetName(),
				Step: i,
			})
		}
	}

	return Model{
		Title:     title,
		Operation: op,
		Rows:      rows,
		StartTime: time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Err = engine.ErrAborted
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case EventMsg:
		m.applyEvent(msg.Event)

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.Outputs = msg.Outputs
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(e engine.Event) {
	idx := -1
	for i, row := range m.Rows {
		if row.Key == e.Key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	row := &m.Rows[idx]
	switch e.Type {
	case engine.EventRegistering, engine.EventDeleting:
		row.State = RowActive
	case engine.EventRegistered, engine.EventDeleted:
		row.State = RowDone
		row.Duration = e.Duration
		if e.Name != "" {
			row.Name = e.Name
		}
	case engine.EventFailed:
		row.State = RowFailed
		row.Err = e.Err
		row.Duration = e.Duration
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
