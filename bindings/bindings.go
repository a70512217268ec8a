// Package bindings wires event handlers to scene nodes from a declarative
// file. A binding file lists (element, event, handler) triples:
//
//	[[bind]]
//	element = "ok-button"
//	event   = "click"
//	handler = "submit"
//
// Elements are node names, events are EventKind names and handlers are
// looked up in a Registry populated by the program at startup. Apply is a
// plain caller of Scene.SetHandler.
package bindings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/phanxgames/ardent"
)

var (
	// ErrUnknownEvent is returned for an event name with no EventKind.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrUnknownHandler is returned for a handler name missing from the registry.
	ErrUnknownHandler = errors.New("unknown handler")

	// ErrDuplicateHandler is returned when a name is registered twice.
	ErrDuplicateHandler = errors.New("handler already registered")
)

// Binding is one (element, event, handler) triple.
type Binding struct {
	Element string `toml:"element"`
	Event   string `toml:"event"`
	Handler string `toml:"handler"`
}

func (b Binding) String() string {
	return fmt.Sprintf("%s.%s -> %s", b.Element, b.Event, b.Handler)
}

type file struct {
	Bind []Binding `toml:"bind"`
}

// Registry maps handler names to functions.
type Registry struct {
	handlers map[string]ardent.Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]ardent.Handler)}
}

// Register adds h under name.
func (r *Registry) Register(name string, h ardent.Handler) error {
	if h == nil {
		return fmt.Errorf("register %q: nil handler", name)
	}
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateHandler)
	}
	r.handlers[name] = h
	return nil
}

// MustRegister is Register that panics on error, for static tables.
func (r *Registry) MustRegister(name string, h ardent.Handler) {
	if err := r.Register(name, h); err != nil {
		panic("bindings: " + err.Error())
	}
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (ardent.Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseError represents an error while parsing a binding file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes binding triples from TOML. Entries missing a field are
// rejected.
func Parse(data []byte) ([]Binding, error) {
	return parse("<input>", data)
}

// Load reads and parses a binding file.
func Load(path string) ([]Binding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bindings %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadFromReader reads and parses bindings from r.
func LoadFromReader(r io.Reader) ([]Binding, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bindings: %w", err)
	}
	return parse("<reader>", data)
}

func parse(source string, data []byte) ([]Binding, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}
	for i, b := range f.Bind {
		if b.Element == "" || b.Event == "" || b.Handler == "" {
			return nil, &ParseError{
				Path:    source,
				Message: fmt.Sprintf("bind[%d]: element, event and handler are required", i),
			}
		}
	}
	return f.Bind, nil
}

// resolved is a validated binding ready to apply.
type resolved struct {
	id      ardent.NodeID
	kind    ardent.EventKind
	handler ardent.Handler
}

// Apply validates every binding against the scene and registry and, only if
// all are valid, registers them with SetHandler in file order. A later
// binding for the same element and event replaces an earlier one. On error
// the scene is left untouched and every problem is reported.
func Apply(s *ardent.Scene, bs []Binding, reg *Registry) error {
	var errs []error
	out := make([]resolved, 0, len(bs))
	for _, b := range bs {
		id, ok := s.Lookup(b.Element)
		if !ok {
			errs = append(errs, fmt.Errorf("bind %s: element %q: %w", b, b.Element, ardent.ErrUnknownNode))
		}
		kind, kok := ardent.ParseEventKind(b.Event)
		if !kok {
			errs = append(errs, fmt.Errorf("bind %s: event %q: %w", b, b.Event, ErrUnknownEvent))
		}
		h, hok := reg.Lookup(b.Handler)
		if !hok {
			errs = append(errs, fmt.Errorf("bind %s: handler %q: %w", b, b.Handler, ErrUnknownHandler))
		}
		if ok && kok && hok {
			out = append(out, resolved{id: id, kind: kind, handler: h})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	for _, r := range out {
		if err := s.SetHandler(r.id, r.kind, r.handler); err != nil {
			return err
		}
	}
	ardent.Logger().Debug("bindings: applied", "count", len(out))
	return nil
}
