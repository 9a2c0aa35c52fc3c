// Package portfolio holds the portfolio content and renders it as the
// plain-text pages shown by the terminal commands.
package portfolio

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultYAML []byte

type Portfolio struct {
	Handle         string       `yaml:"handle"`
	Welcome        []string     `yaml:"welcome"`
	About          About        `yaml:"about"`
	Skills         Skills       `yaml:"skills"`
	Projects       []Project    `yaml:"projects"`
	Contact        Contact      `yaml:"contact"`
	Experience     []Experience `yaml:"experience"`
	Education      []Education  `yaml:"education"`
	Certifications []string     `yaml:"certifications"`
	Guidelines     []string     `yaml:"guidelines"`
}

// About fields keep their display emoji prefixes (📍, 📞, ✉️).
type About struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Location string `yaml:"location"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Bio      string `yaml:"bio"`
}

type Skills struct {
	Languages  []string `yaml:"languages"`
	Libraries  []string `yaml:"libraries"`
	DataTools  []string `yaml:"datatools"`
	Databases  []string `yaml:"databases"`
	Frameworks []string `yaml:"frameworks"`
	APIs       []string `yaml:"apis"`
	Concepts   []string `yaml:"concepts"`
	Tools      []string `yaml:"tools"`
}

type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Status      string   `yaml:"status"`
	Details     string   `yaml:"details"`
}

type Contact struct {
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	GitHub    string `yaml:"github"`
	LinkedIn  string `yaml:"linkedin"`
	Instagram string `yaml:"instagram"`
	Location  string `yaml:"location"`
}

type Experience struct {
	Company     string `yaml:"company"`
	Position    string `yaml:"position"`
	Duration    string `yaml:"duration"`
	Description string `yaml:"description"`
}

type Education struct {
	Institution string `yaml:"institution"`
	Degree      string `yaml:"degree"`
	Year        string `yaml:"year"`
	Status      string `yaml:"status"`
}

// Default returns the embedded content.
func Default() (*Portfolio, error) {
	return Parse(defaultYAML)
}

// Load reads content from path, or the embedded content when path is empty.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if p.Handle == "" {
		p.Handle = "guest@portfolio:~$"
	}
	return &p, nil
}

func (p *Portfolio) validate() error {
	var errs []error
	if p.About.Name == "" {
		errs = append(errs, errors.New("about.name is required"))
	}
	if p.Contact.LinkedIn == "" || p.Contact.GitHub == "" {
		errs = append(errs, errors.New("contact.linkedin and contact.github are required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid portfolio: %w", errors.Join(errs...))
	}
	return nil
}
