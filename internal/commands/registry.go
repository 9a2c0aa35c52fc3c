// Package commands resolves terminal input into the text (or control
// sentinel) the terminal shows next.
package commands

import (
	"sort"
	"strings"
	"time"

	"portfolio-terminal/internal/portfolio"
)

// Command is one entry of the static command table.
type Command struct {
	// Name is the primary command name (e.g., "help")
	Name string

	// Aliases are alternative names (e.g., "h", "?")
	Aliases []string

	Description string

	// Handler renders the command's output or a sentinel.
	Handler func() string
}

// Registry maps names and aliases to commands. When two commands claim the
// same name or alias the first registration wins.
type Registry struct {
	commands []*Command
	index    map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*Command)}
}

// Register adds a command. Names and aliases are matched lower-cased.
func (r *Registry) Register(cmd *Command) {
	r.commands = append(r.commands, cmd)
	for _, key := range append([]string{cmd.Name}, cmd.Aliases...) {
		key = strings.ToLower(key)
		if _, taken := r.index[key]; !taken {
			r.index[key] = cmd
		}
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	return r.index[strings.ToLower(name)]
}

// All returns commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Complete returns the sorted command names starting with prefix.
func (r *Registry) Complete(prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	seen := make(map[string]bool)
	for _, cmd := range r.commands {
		if strings.HasPrefix(cmd.Name, prefix) && !seen[cmd.Name] {
			seen[cmd.Name] = true
			out = append(out, cmd.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Builtins returns the registry of portfolio commands rendered from p. now
// stamps the resume.
func Builtins(p *portfolio.Portfolio, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	text := func(s string) func() string { return func() string { return s } }

	r := NewRegistry()
	for _, c := range []*Command{
		{Name: "help", Aliases: []string{"h", "?"}, Description: "Show available commands", Handler: text(HelpText)},
		{Name: "about", Aliases: []string{"bio", "info"}, Description: "Learn about me and my background", Handler: p.AboutText},
		{Name: "skills", Aliases: []string{"tech", "stack"}, Description: "View my technical skills and expertise", Handler: p.SkillsText},
		{Name: "projects", Aliases: []string{"work", "portfolio"}, Description: "Explore my featured projects", Handler: p.ProjectsText},
		{Name: "resume", Aliases: []string{"cv"}, Description: "View my resume", Handler: func() string { return p.ResumeText(now()) }},
		{Name: "experience", Aliases: []string{"work", "career"}, Description: "View my work experience", Handler: p.ExperienceText},
		{Name: "education", Aliases: []string{"edu", "school"}, Description: "See my educational background", Handler: p.EducationText},
		{Name: "certifications", Aliases: []string{"certs", "certificates"}, Description: "View my certifications", Handler: p.CertificationsText},
		{Name: "contact", Aliases: []string{"reach", "connect"}, Description: "Get my contact information", Handler: p.ContactText},
		{Name: "clear", Aliases: []string{"cls"}, Description: "Clear the terminal screen", Handler: text(ClearScreen)},
		{Name: "theme", Description: "Toggle light/dark theme", Handler: text(ToggleTheme)},
		{Name: "exit", Aliases: []string{"quit", "logout"}, Description: "Refresh the session", Handler: text(ExitSession)},
		{Name: "chat", Aliases: []string{"ai"}, Description: "Start AI conversation", Handler: text(ChatText)},
		{Name: "snake", Aliases: []string{"game"}, Description: "Play snake game", Handler: text(SnakeGameStart)},
		{Name: "python", Aliases: []string{"py", "code"}, Description: "Python code compiler", Handler: text(PythonCompilerStart)},
		{Name: "scrape", Aliases: []string{"webscrape"}, Description: "Web scraper tool", Handler: text(ScrapeUsage)},
		{Name: "ask", Description: "Ask me anything via AI", Handler: text(AskUsage)},
	} {
		r.Register(c)
	}
	return r
}
