package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"portfolio-terminal/internal/commands"
	"portfolio-terminal/internal/ioformats"
	"portfolio-terminal/internal/models"
	"portfolio-terminal/pkg/logger"
)

const defaultResetDelay = 2 * time.Second

// Scraper runs a scrape on behalf of the "scrape <url>" command.
type Scraper interface {
	Scrape(ctx context.Context, url, dataType string) (*models.ScrapeResponse, error)
}

// Prefs persists the theme and the snake high score.
type Prefs interface {
	Theme(ctx context.Context, def string) string
	SetTheme(ctx context.Context, theme string) error
	HighScore(ctx context.Context) int
	RecordScore(ctx context.Context, score int) (bool, error)
}

type Options struct {
	Dispatcher *commands.Dispatcher
	Scraper    Scraper
	// Prefs may be nil; the theme then lives only for the session.
	Prefs Prefs

	Name    string
	Handle  string
	Welcome []string

	DownloadDir string
	ResetDelay  time.Duration
	Now         func() time.Time
	Log         *logger.Logger
	Context     context.Context
}

type (
	tickMsg       Tick
	dispatchedMsg struct{ out string }
	scrapedMsg    struct {
		url  string
		resp *models.ScrapeResponse
		err  error
	}
	resetMsg struct{}
)

// Model is the bubbletea model for the portfolio terminal.
type Model struct {
	ctx        context.Context
	session    *Session
	dispatcher *commands.Dispatcher
	scraper    Scraper
	prefs      Prefs
	log        *logger.Logger
	now        func() time.Time

	name        string
	downloadDir string
	resetDelay  time.Duration

	input  textinput.Model
	theme  string
	styles Styles
	width  int
	height int

	resetPending bool
	snakeScore   int

	after func(d time.Duration, msg tea.Msg) tea.Cmd
}

func NewModel(opts Options) *Model {
	m := &Model{
		ctx:         opts.Context,
		session:     NewSession(opts.Handle, opts.Welcome),
		dispatcher:  opts.Dispatcher,
		scraper:     opts.Scraper,
		prefs:       opts.Prefs,
		log:         opts.Log,
		now:         opts.Now,
		name:        opts.Name,
		downloadDir: opts.DownloadDir,
		resetDelay:  opts.ResetDelay,
		after: func(d time.Duration, msg tea.Msg) tea.Cmd {
			return tea.Tick(d, func(time.Time) tea.Msg { return msg })
		},
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.log == nil {
		m.log = logger.Nop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.resetDelay <= 0 {
		m.resetDelay = defaultResetDelay
	}

	m.theme = ThemeLight
	if m.prefs != nil {
		m.theme = m.prefs.Theme(m.ctx, ThemeLight)
	}
	m.styles = StylesFor(m.theme)

	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.Placeholder = "type here"
	m.input.Focus()
	m.applyTheme()
	return m
}

// Session exposes the underlying state, mainly for tests and embedding.
func (m *Model) Session() *Session { return m.session }

func (m *Model) Theme() string { return m.theme }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick(m.session.Welcome()))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-lipgloss.Width(m.session.Handle())-4)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, m.advance(Tick(msg))

	case dispatchedMsg:
		m.session.Dispatched()
		return m, m.handleOutput(msg.out)

	case scrapedMsg:
		return m, m.typeText(m.scrapeReport(msg))

	case resetMsg:
		m.resetPending = false
		return m, m.tick(m.session.Welcome())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.session.State() == StateSubApp {
		if msg.Type == tea.KeyEsc {
			m.closeSubApp()
		}
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		return m, m.submit()
	}
	// Everything else edits the prompt, which is closed while busy.
	if m.session.State() != StateAwaitingInput {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyUp:
		if v, ok := m.session.HistoryUp(); ok {
			m.setInput(v)
		}
		return m, nil
	case tea.KeyDown:
		if v, ok := m.session.HistoryDown(); ok {
			m.setInput(v)
		}
		return m, nil
	case tea.KeyTab:
		m.complete()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	cmd, err := m.session.Submit(m.input.Value())
	if errors.Is(err, ErrBusy) || cmd == "" {
		return nil
	}
	m.input.SetValue("")
	m.log.Debugf("dispatch %q", cmd)

	ctx, d := m.ctx, m.dispatcher
	return func() tea.Msg {
		return dispatchedMsg{out: d.Dispatch(ctx, cmd)}
	}
}

// handleOutput applies sentinels immediately and types everything else.
func (m *Model) handleOutput(out string) tea.Cmd {
	switch out {
	case commands.ClearScreen:
		m.session.Clear()
		m.session.Ready()
		return nil
	case commands.SnakeGameStart:
		m.snakeScore = 0
		m.session.EnterSubApp(SubAppSnake)
		return nil
	case commands.PythonCompilerStart:
		m.session.EnterSubApp(SubAppPython)
		return nil
	case commands.ToggleTheme:
		m.setTheme(Toggle(m.theme))
		m.session.AddLine(LineOutput, fmt.Sprintf("Theme switched to %s mode", m.theme))
		m.session.Ready()
		return nil
	case commands.ExitSession:
		m.resetPending = true
		return m.typeText(commands.Goodbye)
	}

	if url, ok := commands.ScrapeTarget(out); ok {
		return tea.Batch(m.typeText(commands.ScrapeStarted(url)), m.scrape(url))
	}
	return m.typeText(out)
}

func (m *Model) typeText(text string) tea.Cmd {
	if t, ok := m.session.Type(text); ok {
		return m.tick(t)
	}
	return nil
}

func (m *Model) tick(t Tick) tea.Cmd {
	return m.after(t.After, tickMsg(t))
}

func (m *Model) advance(t Tick) tea.Cmd {
	next, p := m.session.Advance(t.Gen)
	switch p {
	case More:
		return m.tick(next)
	case Done:
		if m.resetPending {
			m.session.Hold()
			return m.after(m.resetDelay, resetMsg{})
		}
	}
	return nil
}

func (m *Model) scrape(url string) tea.Cmd {
	if m.scraper == nil {
		return func() tea.Msg {
			return scrapedMsg{url: url, err: errors.New("scraper not configured")}
		}
	}
	ctx, s := m.ctx, m.scraper
	return func() tea.Msg {
		resp, err := s.Scrape(ctx, url, "")
		return scrapedMsg{url: url, resp: resp, err: err}
	}
}

func (m *Model) scrapeReport(msg scrapedMsg) string {
	if msg.err != nil {
		m.log.Warnf("scrape %s: %v", msg.url, msg.err)
		return "❌ Network error during scraping: " + msg.err.Error() + "\n" +
			"💡 Please check your internet connection and try again"
	}
	if msg.resp == nil || !msg.resp.Success || msg.resp.CSVContent == "" {
		reason := "Unknown error"
		if msg.resp != nil && msg.resp.Error != "" {
			reason = msg.resp.Error
		}
		return "❌ Scraping failed: " + reason + "\n" +
			"💡 Try a different URL or check if the website allows scraping"
	}

	path, err := ioformats.WriteCSVFile(m.downloadDir, msg.resp.CSVContent, m.now())
	if err != nil {
		m.log.Errorf("save csv: %v", err)
		return "❌ Scraping failed: " + err.Error()
	}
	return fmt.Sprintf("✅ Scraping completed successfully!\n📊 Total items scraped: %d\n📥 CSV file saved: %s",
		msg.resp.TotalItems, path)
}

func (m *Model) closeSubApp() {
	switch m.session.SubApp() {
	case SubAppSnake:
		if m.prefs != nil {
			if _, err := m.prefs.RecordScore(m.ctx, m.snakeScore); err != nil {
				m.log.Warnf("record high score: %v", err)
			}
		}
		m.session.ExitSubApp(fmt.Sprintf("Game Over! Final Score: %d", m.snakeScore), "")
	case SubAppPython:
		m.session.ExitSubApp("Python compiler closed.", "")
	default:
		m.session.ExitSubApp()
	}
}

// complete fills in a command name from the registry. Several matches are
// listed below the prompt.
func (m *Model) complete() {
	v := strings.TrimSpace(m.input.Value())
	if v == "" || strings.Contains(v, " ") || m.dispatcher == nil {
		return
	}
	matches := m.dispatcher.Registry().Complete(v)
	switch len(matches) {
	case 0:
		return
	case 1:
		m.setInput(matches[0])
	default:
		m.setInput(commonPrefix(matches))
		m.session.AddLine(LineOutput, strings.Join(matches, "  "))
	}
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		for !strings.HasPrefix(w, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

func (m *Model) setInput(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
}

func (m *Model) setTheme(theme string) {
	m.theme = theme
	m.styles = StylesFor(theme)
	m.applyTheme()
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SetTheme(m.ctx, theme); err != nil {
		m.log.Warnf("save theme: %v", err)
	}
}

func (m *Model) applyTheme() {
	m.input.TextStyle = m.styles.Typed
	m.input.Cursor.Style = m.styles.Typed
	m.input.PlaceholderStyle = m.styles.Muted
}

func (m *Model) View() string {
	st := m.styles
	var b strings.Builder

	icon := "🌙"
	if m.theme == ThemeDark {
		icon = "☀️"
	}
	b.WriteString(st.Brand.Render(m.name) + "  " + st.Handle.Render(m.session.Handle()) +
		"  " + icon + "  " + st.Status.Render("● Connected"))
	b.WriteString("\n\n")

	switch m.session.SubApp() {
	case SubAppSnake:
		high := 0
		if m.prefs != nil {
			high = m.prefs.HighScore(m.ctx)
		}
		b.WriteString(st.Output.Render(fmt.Sprintf("🐍 Snake\n\nScore: %d   High score: %d\n\nPress Esc to end the game.", m.snakeScore, high)))
		return m.frame(b.String())
	case SubAppPython:
		b.WriteString(st.Output.Render("🐍 Python compiler\n\nPress Esc to close."))
		return m.frame(b.String())
	}

	lines := m.session.Lines()
	if m.height > 0 {
		if room := m.height - 4; room > 0 && len(lines) > room {
			lines = lines[len(lines)-room:]
		}
	}
	for _, l := range lines {
		b.WriteString(st.line(l))
		b.WriteByte('\n')
	}
	if m.session.State() == StateAwaitingInput {
		b.WriteString(st.Prompt.Render(m.session.Handle()) + m.input.View())
	}
	return m.frame(b.String())
}

func (m *Model) frame(s string) string {
	if m.width == 0 {
		return s
	}
	return m.styles.Frame.Width(m.width).Render(s)
}
