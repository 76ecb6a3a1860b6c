// Package content holds the static portfolio tables: profile, about text,
// skills, experience, achievements, projects and social links.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

// FeaturedCount is how many projects the work section shows before
// "View All Projects".
const FeaturedCount = 4

// Project statuses.
const (
	StatusLive        = "Live"
	StatusBeta        = "Beta"
	StatusDevelopment = "Development"
	StatusPrototype   = "Prototype"
)

// Content is everything the page renders that is not code.
type Content struct {
	Site         Site      `yaml:"site"`
	Profile      Profile   `yaml:"profile"`
	About        About     `yaml:"about"`
	Skills       []string  `yaml:"skills"`
	Experience   []Period  `yaml:"experience"`
	Achievements []Period  `yaml:"achievements"`
	Projects     []Project `yaml:"projects"`
	Social       []Link    `yaml:"social"`
}

// Site is page metadata.
type Site struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Initials    string `yaml:"initials"`
}

// Profile is the hero section copy.
type Profile struct {
	FirstName    string   `yaml:"first_name"`
	LastName     string   `yaml:"last_name"`
	Headline     string   `yaml:"headline"`
	Status       string   `yaml:"status"`
	Availability string   `yaml:"availability"`
	Location     string   `yaml:"location"`
	Timezone     string   `yaml:"timezone"`
	Email        string   `yaml:"email"`
	Bullets      []string `yaml:"bullets"`
}

type About struct {
	Title      string   `yaml:"title"`
	Paragraphs []string `yaml:"paragraphs"`
}

// Period groups timeline entries under a label such as a year.
type Period struct {
	Period  string  `yaml:"period"`
	Entries []Entry `yaml:"entries"`
}

type Entry struct {
	Title        string `yaml:"title"`
	Organization string `yaml:"organization"`
	Description  string `yaml:"description"`
}

type Project struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Status      string   `yaml:"status"`
	Year        string   `yaml:"year"`
	URL         string   `yaml:"url"`
	Image       string   `yaml:"image"`
}

// StatusClass names the badge style of the project status.
func (p Project) StatusClass() string {
	switch p.Status {
	case StatusLive:
		return "status-live"
	case StatusBeta:
		return "status-beta"
	case StatusDevelopment:
		return "status-development"
	default:
		return "status-prototype"
	}
}

type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads content from path, or the embedded defaults when path is empty.
func Load(path string) (*Content, error) {
	data := defaultYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and validates a YAML content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks project ids and statuses.
func (c *Content) Validate() error {
	var errs []error
	seen := make(map[int]bool)
	for _, p := range c.Projects {
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("project %d: duplicate id", p.ID))
		}
		seen[p.ID] = true
		switch p.Status {
		case StatusLive, StatusBeta, StatusDevelopment, StatusPrototype:
		default:
			errs = append(errs, fmt.Errorf("project %d: unknown status %q", p.ID, p.Status))
		}
	}
	return errors.Join(errs...)
}

// Featured returns the projects shown on the landing page.
func (c *Content) Featured() []Project {
	if len(c.Projects) <= FeaturedCount {
		return c.Projects
	}
	return c.Projects[:FeaturedCount]
}

// FullName joins the profile's name parts.
func (c *Content) FullName() string {
	return c.Profile.FirstName + " " + c.Profile.LastName
}
