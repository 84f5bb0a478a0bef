package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed nav.yaml
var defaultNav []byte

//go:embed nav.schema.json
var navSchemaJSON []byte

const routePrefix = "/notes/"

// Entry is one navigable page.
type Entry struct {
	Route       string `yaml:"route" json:"route"`
	Title       string `yaml:"title" json:"title"`
	Group       string `yaml:"group" json:"group"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Source      string `yaml:"source,omitempty" json:"source"`
}

// Group is a sidebar section.
type Group struct {
	Name    string
	Entries []Entry
}

// Nav is the static navigation table. It is read-only after loading.
type Nav struct {
	entries []Entry
	byRoute map[string]int
}

type navFile struct {
	Entries []Entry `yaml:"entries"`
}

var (
	navSchemaOnce sync.Once
	navSchema     *jsonschema.Schema
	navSchemaErr  error
)

func compiledNavSchema() (*jsonschema.Schema, error) {
	navSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(navSchemaJSON))
		if err != nil {
			navSchemaErr = fmt.Errorf("decoding nav schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("nav.schema.json", doc); err != nil {
			navSchemaErr = fmt.Errorf("adding nav schema: %w", err)
			return
		}
		navSchema, navSchemaErr = c.Compile("nav.schema.json")
	})
	return navSchema, navSchemaErr
}

// DefaultNav returns the built-in navigation table.
func DefaultNav() *Nav {
	n, err := ParseNav(defaultNav)
	if err != nil {
		panic("content: embedded nav.yaml is invalid: " + err.Error())
	}
	return n
}

// LoadNav reads a navigation file. An empty path yields DefaultNav.
func LoadNav(path string) (*Nav, error) {
	if path == "" {
		return DefaultNav(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading nav file: %w", err)
	}
	n, err := ParseNav(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// ParseNav decodes and validates a YAML navigation table.
func ParseNav(data []byte) (*Nav, error) {
	// Validate the generic document first so schema errors point at the
	// offending field rather than at a Go type.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing nav yaml: %w", err)
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting nav yaml: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, fmt.Errorf("converting nav yaml: %w", err)
	}
	sch, err := compiledNavSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("invalid nav: %w", err)
	}

	var f navFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing nav yaml: %w", err)
	}
	return NewNav(f.Entries)
}

// NewNav builds a Nav from entries. Routes must be unique. Entries without
// a source read "<route without /notes/>.md".
func NewNav(entries []Entry) (*Nav, error) {
	n := &Nav{byRoute: make(map[string]int, len(entries))}
	for _, e := range entries {
		e.Route = normalizeRoute(e.Route)
		if e.Source == "" {
			e.Source = strings.TrimPrefix(e.Route, routePrefix) + ".md"
		}
		if _, dup := n.byRoute[e.Route]; dup {
			return nil, fmt.Errorf("duplicate nav route %q", e.Route)
		}
		n.byRoute[e.Route] = len(n.entries)
		n.entries = append(n.entries, e)
	}
	return n, nil
}

func normalizeRoute(route string) string {
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	return route
}

// Entries returns the entries in reading order.
func (n *Nav) Entries() []Entry {
	return append([]Entry(nil), n.entries...)
}

// Lookup finds the entry for route. Trailing slashes are ignored.
func (n *Nav) Lookup(route string) (Entry, bool) {
	i, ok := n.byRoute[normalizeRoute(route)]
	if !ok {
		return Entry{}, false
	}
	return n.entries[i], true
}

// First returns the first entry, used as the landing page.
func (n *Nav) First() (Entry, bool) {
	if len(n.entries) == 0 {
		return Entry{}, false
	}
	return n.entries[0], true
}

// Groups returns the entries grouped by Group, in order of first appearance.
func (n *Nav) Groups() []Group {
	var groups []Group
	index := map[string]int{}
	for _, e := range n.entries {
		i, ok := index[e.Group]
		if !ok {
			i = len(groups)
			index[e.Group] = i
			groups = append(groups, Group{Name: e.Group})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// MatchType ranks how an entry matched a search query.
type MatchType uint8

const (
	NoMatch MatchType = iota
	MatchDescription
	MatchTitle
	MatchExact
)

// Match reports how e matches query. Every word of the query must appear
// in the title or the description.
func (e Entry) Match(query string) MatchType {
	q := strings.TrimSpace(query)
	if q == "" {
		return NoMatch
	}
	if normalizeRoute(q) == e.Route || strings.EqualFold(q, e.Title) {
		return MatchExact
	}

	title := strings.ToLower(e.Title + " " + e.Group)
	desc := strings.ToLower(e.Description)
	match := MatchDescription
	for _, w := range strings.Fields(strings.ToLower(q)) {
		if strings.Contains(title, w) {
			match = MatchTitle
			continue
		}
		if strings.Contains(desc, w) {
			continue
		}
		return NoMatch
	}
	return match
}

// Search returns the entries matching query: title matches first, then
// description matches, each in reading order. An exact match on route or
// title returns that entry alone.
func (n *Nav) Search(query string) []Entry {
	var byTitle, byDesc []Entry
	for _, e := range n.entries {
		switch e.Match(query) {
		case MatchExact:
			return []Entry{e}
		case MatchTitle:
			byTitle = append(byTitle, e)
		case MatchDescription:
			byDesc = append(byDesc, e)
		}
	}
	return append(byTitle, byDesc...)
}
