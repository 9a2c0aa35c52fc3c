package commands

import (
	"context"
	"strings"

	"portfolio-terminal/internal/portfolio"
)

// Asker answers free-form questions, typically through the chat API.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Dispatcher turns raw input into output text or a sentinel.
type Dispatcher struct {
	registry *Registry
	contact  portfolio.Contact
	asker    Asker
}

// NewDispatcher wires the registry and contact table. A nil asker makes
// "ask" answer with AskUnavailable.
func NewDispatcher(r *Registry, contact portfolio.Contact, asker Asker) *Dispatcher {
	return &Dispatcher{registry: r, contact: contact, asker: asker}
}

func (d *Dispatcher) Registry() *Registry { return d.registry }

// Split separates the lower-cased command name from its arguments. Input is
// split on single spaces, so args keep any extra inner spacing.
func Split(input string) (name, args string) {
	name, args, _ = strings.Cut(strings.TrimSpace(input), " ")
	return strings.ToLower(name), args
}

// Dispatch resolves input in order: contact redirects, scrape targets, ask,
// registry lookup, then the not-found hint.
func (d *Dispatcher) Dispatch(ctx context.Context, input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return EmptyInput
	}
	name, args := Split(trimmed)

	switch {
	case name == "contact" && args != "":
		return d.social(strings.ToLower(args))
	case name == "scrape" && args != "":
		u := strings.TrimSpace(args)
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return ScrapeInvalidURL
		}
		return ScrapePrefix + u
	case name == "ask" && args != "":
		if d.asker == nil {
			return AskUnavailable
		}
		answer, err := d.asker.Ask(ctx, args)
		if err != nil {
			return AskFailed
		}
		return answer
	}

	if cmd := d.registry.Get(name); cmd != nil {
		return cmd.Handler()
	}
	return NotFound(name, trimmed)
}

func (d *Dispatcher) social(platform string) string {
	switch platform {
	case "linkedin", "li":
		return "Opening LinkedIn profile: " + d.contact.LinkedIn
	case "github", "git":
		return "Opening GitHub profile: " + d.contact.GitHub
	case "instagram", "insta":
		return "Instagram: " + d.contact.Instagram
	}
	return `Social platform "` + platform + `" not found. Available: linkedin, github, insta`
}
