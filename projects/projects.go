// Package projects loads the portfolio project catalog.
package projects

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AllTypes selects every project in Filter.
const AllTypes = "all"

// Project is one showcase entry.
type Project struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	LongDescription string   `yaml:"longDescription,omitempty"`
	Tags            []string `yaml:"tags"`
	Image           string   `yaml:"image"`
	Link            string   `yaml:"link,omitempty"`
	Repo            string   `yaml:"repo,omitempty"`
	Type            []string `yaml:"type"`
	Featured        bool     `yaml:"featured"`
}

// Path returns the site path of the project's detail page.
func (p Project) Path() string {
	return "/projects/" + p.ID + "/"
}

// ErrNotFound is returned by Find for an unknown ID.
var ErrNotFound = errors.New("project not found")

type catalog struct {
	Projects []Project `yaml:"projects"`
}

// Load reads the catalog at path. A missing file yields an empty catalog.
func Load(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Empty and duplicate IDs are rejected.
func Parse(data []byte) ([]Project, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse projects: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Projects))
	for i, p := range c.Projects {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("project %d: empty id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("project %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
		c.Projects[i].ID = id
	}
	return c.Projects, nil
}

// Filter returns the projects of the given type. An empty type or AllTypes
// returns the input.
func Filter(list []Project, typ string) []Project {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if typ == "" || typ == AllTypes {
		return list
	}
	var out []Project
	for _, p := range list {
		for _, t := range p.Type {
			if strings.EqualFold(t, typ) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Featured returns the featured projects.
func Featured(list []Project) []Project {
	var out []Project
	for _, p := range list {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Types returns the distinct project types in first-seen order.
func Types(list []Project) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range list {
		for _, t := range p.Type {
			t = strings.ToLower(t)
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Find returns the project with the given ID.
func Find(list []Project, id string) (Project, error) {
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
