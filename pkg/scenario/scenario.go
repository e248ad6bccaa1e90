package scenario

import (
	"os"
	"slices"

	"github.com/vango-dev/lazydom/internal/errors"
	"gopkg.in/yaml.v3"
)

// RootName is the reserved name of the root element.
const RootName = "root"

// Actions understood by the runner.
const (
	ActionAdd    = "add"
	ActionInsert = "insert"
	ActionRemove = "remove"
	ActionMove   = "move"
	ActionText   = "text"
	ActionHTML   = "html"
	ActionAttr   = "attr"
	ActionStyle  = "style"
	ActionFlush  = "flush"
)

var actions = []string{
	ActionAdd, ActionInsert, ActionRemove, ActionMove,
	ActionText, ActionHTML, ActionAttr, ActionStyle, ActionFlush,
}

// Scenario is a parsed script.
type Scenario struct {
	Name     string                  `yaml:"name"`
	Root     string                  `yaml:"root,omitempty"`
	Elements map[string]*ElementSpec `yaml:"elements"`
	Steps    []*Step                 `yaml:"steps"`

	file string
}

// ElementSpec declares an element and its initial state.
type ElementSpec struct {
	Kind  string            `yaml:"kind,omitempty"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
	Style map[string]string `yaml:"style,omitempty"`
	Text  string            `yaml:"text,omitempty"`
	HTML  string            `yaml:"html,omitempty"`

	Line int `yaml:"-"`
}

// UnmarshalYAML records the line of the element declaration.
func (e *ElementSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain ElementSpec
	if err := value.Decode((*plain)(e)); err != nil {
		return err
	}
	e.Line = value.Line
	return nil
}

// Step is one scripted call.
type Step struct {
	Do       string   `yaml:"do"`
	Parent   string   `yaml:"parent,omitempty"`
	Child    string   `yaml:"child,omitempty"`
	Children []string `yaml:"children,omitempty"`
	Before   string   `yaml:"before,omitempty"`
	After    string   `yaml:"after,omitempty"`
	Index    *int     `yaml:"index,omitempty"`
	Target   string   `yaml:"target,omitempty"`
	Key      string   `yaml:"key,omitempty"`
	Value    string   `yaml:"value,omitempty"`
	Expect   *string  `yaml:"expect,omitempty"`

	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// UnmarshalYAML records the position of the step.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	type plain Step
	if err := value.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line, s.Column = value.Line, value.Column
	return nil
}

// targets returns the child arguments of a structural step.
func (s *Step) targets() []string {
	if s.Child == "" {
		return s.Children
	}
	return append([]string{s.Child}, s.Children...)
}

// File returns the path the scenario was loaded from, if any.
func (s *Scenario) File() string { return s.file }

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("L020").Wrap(err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a scenario. file is used for error
// locations only.
func Parse(data []byte, file string) (*Scenario, error) {
	s := &Scenario{file: file}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.New("L020").
			WithDetail(err.Error()).
			WithSuggestion("Check the YAML syntax of " + displayName(file))
	}
	if s.Root == "" {
		s.Root = "body"
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func displayName(file string) string {
	if file == "" {
		return "the scenario"
	}
	return file
}

func (s *Scenario) validate() error {
	for name, e := range s.Elements {
		if e == nil {
			e = &ElementSpec{}
			s.Elements[name] = e
		}
		if name == RootName {
			return errors.New("L020").
				WithDetailf("%q is reserved for the root element", RootName).
				WithLocation(s.file, e.Line, 0)
		}
		if e.Text != "" && e.HTML != "" {
			return errors.New("L020").
				WithDetailf("element %q sets both text and html", name).
				WithLocation(s.file, e.Line, 0)
		}
	}
	for _, st := range s.Steps {
		if st == nil {
			return errors.New("L020").WithDetail("empty step")
		}
		if err := s.validateStep(st); err != nil {
			return err.WithLocation(s.file, st.Line, st.Column)
		}
	}
	return nil
}

func (s *Scenario) validateStep(st *Step) *errors.Error {
	if !slices.Contains(actions, st.Do) {
		return errors.New("L022").
			WithDetailf("unknown action %q", st.Do).
			WithSuggestion("Use one of add, insert, remove, move, text, html, attr, style, flush")
	}

	switch st.Do {
	case ActionAdd, ActionRemove:
		if err := s.require(st, st.Parent, "parent"); err != nil {
			return err
		}
		if len(st.targets()) == 0 {
			return missing(st, "child or children")
		}
		for _, name := range st.targets() {
			if err := s.known(name); err != nil {
				return err
			}
		}
	case ActionInsert, ActionMove:
		if err := s.require(st, st.Parent, "parent"); err != nil {
			return err
		}
		if err := s.require(st, st.Child, "child"); err != nil {
			return err
		}
		n := 0
		if st.Index != nil {
			n++
		}
		for _, rel := range []string{st.Before, st.After} {
			if rel == "" {
				continue
			}
			n++
			if err := s.known(rel); err != nil {
				return err
			}
		}
		if n != 1 {
			return errors.New("L020").
				WithDetailf("%s needs exactly one of index, before, after", st.Do)
		}
	case ActionText, ActionHTML:
		return s.require(st, st.Target, "target")
	case ActionAttr, ActionStyle:
		if err := s.require(st, st.Target, "target"); err != nil {
			return err
		}
		if st.Key == "" {
			return missing(st, "key")
		}
	}
	return nil
}

// require checks that a named argument is present and declared.
func (s *Scenario) require(st *Step, name, field string) *errors.Error {
	if name == "" {
		return missing(st, field)
	}
	return s.known(name)
}

func (s *Scenario) known(name string) *errors.Error {
	if name == RootName {
		return nil
	}
	if _, ok := s.Elements[name]; !ok {
		return errors.New("L021").
			WithDetailf("element %q is not declared", name).
			WithSuggestion("Declare it under elements:")
	}
	return nil
}

func missing(st *Step, field string) *errors.Error {
	return errors.New("L020").WithDetailf("%s needs %s", st.Do, field)
}
