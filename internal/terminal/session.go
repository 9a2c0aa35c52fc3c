// Package terminal is the interactive portfolio terminal: a line buffer with
// a typewriter effect, command history and sub-app switching, driven by a
// bubbletea program.
package terminal

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-terminal/internal/textutil"
)

// ErrBusy is returned when input arrives while a command is still running or
// output is still being typed.
var ErrBusy = errors.New("terminal busy")

type State int

const (
	StateIdle State = iota
	StateAwaitingInput
	StateProcessing
	StateTypingOutput
	StateSubApp
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateProcessing:
		return "processing"
	case StateTypingOutput:
		return "typing-output"
	case StateSubApp:
		return "sub-app"
	}
	return "unknown"
}

type SubApp int

const (
	SubAppNone SubApp = iota
	SubAppSnake
	SubAppPython
)

type LineKind int

const (
	LineOutput LineKind = iota
	LineInput
	LineSystem
)

type Line struct {
	ID      string
	Kind    LineKind
	Content string
}

// Typing delays.
const (
	longLineDelay  = 15 * time.Millisecond
	shortLineDelay = 25 * time.Millisecond
	linePause      = 100 * time.Millisecond
	welcomeLong    = 200 * time.Millisecond
	welcomeShort   = 300 * time.Millisecond
)

// Tick asks the caller to call Advance(Gen) after the delay.
type Tick struct {
	Gen   uint64
	After time.Duration
}

// Progress reports what Advance did with a tick.
type Progress int

const (
	// Stale ticks belong to a stopped chain and are ignored.
	Stale Progress = iota
	More
	Done
)

type pending struct {
	kind  LineKind
	text  string
	whole bool
}

// Session is the terminal state. It is not safe for concurrent use; the
// bubbletea update loop owns it.
type Session struct {
	handle  string
	welcome []string

	lines   []Line
	state   State
	subApp  SubApp
	history []string
	histIdx int

	// dispatching is set from Submit until the command's output arrives.
	// Output typed in the meantime does not reopen the prompt.
	dispatching bool

	queue   []pending
	charIdx int
	typing  bool
	// typingLine indexes the line being typed; AddLine may append after it.
	typingLine int
	gen        uint64
}

// NewSession creates an idle session. Welcome lines are shown by Welcome.
func NewSession(handle string, welcome []string) *Session {
	return &Session{handle: handle, welcome: welcome, histIdx: -1}
}

func (s *Session) State() State { return s.state }

func (s *Session) SubApp() SubApp { return s.subApp }

func (s *Session) Handle() string { return s.handle }

func (s *Session) History() []string { return append([]string(nil), s.history...) }

// Lines returns a copy of the buffer.
func (s *Session) Lines() []Line {
	return append([]Line(nil), s.lines...)
}

// Welcome clears the buffer and starts the banner. Each welcome line appears
// whole after the "<handle> welcome" system line.
func (s *Session) Welcome() Tick {
	s.Clear()
	s.queue = append(s.queue, pending{kind: LineSystem, text: s.handle + " welcome", whole: true})
	for _, l := range s.welcome {
		s.queue = append(s.queue, pending{kind: LineOutput, text: l, whole: true})
	}
	s.state = StateTypingOutput
	s.typing = true
	return Tick{Gen: s.gen}
}

// Submit accepts a command line. It returns the trimmed command, or "" when
// the input is blank and nothing changes.
func (s *Session) Submit(input string) (string, error) {
	if s.state != StateAwaitingInput {
		return "", ErrBusy
	}
	cmd := strings.TrimSpace(input)
	if cmd == "" {
		return "", nil
	}
	s.history = append(s.history, input)
	s.histIdx = -1
	s.AddLine(LineInput, "$ "+input)
	s.state = StateProcessing
	s.dispatching = true
	return cmd, nil
}

// Dispatched marks the submitted command as answered. The prompt reopens once
// nothing is left to type.
func (s *Session) Dispatched() {
	s.dispatching = false
	if s.state == StateProcessing && !s.typing {
		s.state = StateAwaitingInput
	}
}

// settled is the state a finished typing chain falls back to.
func (s *Session) settled() State {
	if s.dispatching {
		return StateProcessing
	}
	return StateAwaitingInput
}

// AddLine appends a finished line.
func (s *Session) AddLine(kind LineKind, content string) {
	s.lines = append(s.lines, Line{ID: uuid.NewString(), Kind: kind, Content: content})
}

// Type queues text for the typewriter. The returned bool is false when a
// chain is already running (the text joins its queue) or when the text was
// written directly because a sub-app is active.
func (s *Session) Type(text string) (Tick, bool) {
	lines := strings.Split(text, "\n")
	if s.state == StateSubApp {
		for _, l := range lines {
			s.AddLine(LineOutput, l)
		}
		return Tick{}, false
	}
	for _, l := range lines {
		s.queue = append(s.queue, pending{kind: LineOutput, text: l})
	}
	s.state = StateTypingOutput
	if s.typing {
		return Tick{}, false
	}
	s.typing = true
	return Tick{Gen: s.gen}, true
}

// Advance performs one typewriter step for a tick of generation gen.
func (s *Session) Advance(gen uint64) (Tick, Progress) {
	if gen != s.gen || !s.typing {
		return Tick{}, Stale
	}
	if d, ok := s.step(); ok {
		return Tick{Gen: s.gen, After: d}, More
	}
	s.typing = false
	s.charIdx = 0
	if s.state == StateTypingOutput {
		s.state = s.settled()
	}
	return Tick{}, Done
}

// step mirrors the browser effect: a new empty line, then one more
// character per step, then a pause before the next line.
func (s *Session) step() (time.Duration, bool) {
	if len(s.queue) == 0 {
		return 0, false
	}
	p := s.queue[0]
	if p.whole {
		s.AddLine(p.kind, p.text)
		s.queue = s.queue[1:]
		if textutil.Len(p.text) > 30 {
			return welcomeLong, true
		}
		return welcomeShort, true
	}

	runes := []rune(p.text)
	if s.charIdx == 0 {
		s.AddLine(p.kind, "")
		s.typingLine = len(s.lines) - 1
	}
	if s.charIdx <= len(runes) {
		s.lines[s.typingLine].Content = string(runes[:s.charIdx])
		s.charIdx++
		if textutil.Len(p.text) > 50 {
			return longLineDelay, true
		}
		return shortLineDelay, true
	}
	s.charIdx = 0
	s.queue = s.queue[1:]
	return linePause, true
}

// Stop invalidates pending ticks and writes out whatever was still queued.
func (s *Session) Stop() {
	s.gen++
	if !s.typing {
		return
	}
	for i, p := range s.queue {
		if i == 0 && !p.whole && s.charIdx > 0 {
			s.lines[s.typingLine].Content = p.text
			continue
		}
		s.AddLine(p.kind, p.text)
	}
	s.queue = nil
	s.charIdx = 0
	s.typing = false
	if s.state == StateTypingOutput {
		s.state = s.settled()
	}
}

// Clear empties the buffer and drops anything still queued.
func (s *Session) Clear() {
	s.gen++
	s.lines = nil
	s.queue = nil
	s.charIdx = 0
	s.typing = false
}

// Ready returns to awaiting input unless output is still being typed, a
// sub-app is active, or a submitted command has not answered yet.
func (s *Session) Ready() {
	if s.typing || s.state == StateSubApp {
		return
	}
	s.state = s.settled()
}

// Hold blocks input without typing anything.
func (s *Session) Hold() {
	s.state = StateProcessing
}

func (s *Session) EnterSubApp(app SubApp) {
	s.Stop()
	s.subApp = app
	s.state = StateSubApp
}

// ExitSubApp returns to the prompt after printing the closing lines.
func (s *Session) ExitSubApp(lines ...string) {
	for _, l := range lines {
		s.AddLine(LineOutput, l)
	}
	s.subApp = SubAppNone
	s.state = s.settled()
}

// HistoryUp moves to the previous command, starting from the newest.
func (s *Session) HistoryUp() (string, bool) {
	if len(s.history) == 0 {
		return "", false
	}
	if s.histIdx == -1 {
		s.histIdx = len(s.history) - 1
	} else {
		s.histIdx = max(0, s.histIdx-1)
	}
	return s.history[s.histIdx], true
}

// HistoryDown moves toward the newest command. Moving past it leaves
// history navigation with an empty input.
func (s *Session) HistoryDown() (string, bool) {
	if s.histIdx < 0 {
		return "", false
	}
	next := s.histIdx + 1
	if next >= len(s.history) {
		s.histIdx = -1
		return "", true
	}
	s.histIdx = next
	return s.history[next], true
}
