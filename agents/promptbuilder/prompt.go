/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// stringLiteral only accepts untyped string constants from callers outside
// this package, which keeps runtime strings out of templates.
type stringLiteral string

// renderer produces the text for one bound placeholder.
type renderer func() (string, error)

// Prompt is a template plus the values bound to its placeholders so far.
type Prompt struct {
	template string
	bound    map[string]renderer
	names    []string
}

// NewPrompt parses template and records its placeholders.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	seen := map[string]struct{}{}
	if _, err := expand(string(template), func(name string) (string, error) {
		seen[name] = struct{}{}
		return "", nil
	}); err != nil {
		return nil, err
	}
	names := slices.Sorted(maps.Keys(seen))
	return &Prompt{template: string(template), bound: map[string]renderer{}, names: names}, nil
}

// Placeholders returns the sorted placeholder names in the template.
func (p *Prompt) Placeholders() []string {
	return slices.Clone(p.names)
}

func (p *Prompt) bind(name string, r renderer) (*Prompt, error) {
	if !slices.Contains(p.names, name) {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if _, ok := p.bound[name]; ok {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{template: p.template, bound: maps.Clone(p.bound), names: p.names}
	next.bound[name] = r
	return next, nil
}

// BindStringLiteral binds a developer-supplied constant.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, func() (string, error) { return string(value), nil })
}

// BindXML binds data marshaled as indented XML.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := xml.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling %s as XML: %w", name, err)
		}
		return string(b), nil
	})
}

// BindJSON binds data marshaled as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling %s as JSON: %w", name, err)
		}
		return string(b), nil
	})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := yaml.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("marshaling %s as YAML: %w", name, err)
		}
		return string(b), nil
	})
}

// Build renders the prompt. It fails if any placeholder is unbound.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.names))
	for _, name := range p.names {
		r, ok := p.bound[name]
		if !ok {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		v, err := r()
		if err != nil {
			return "", err
		}
		values[name] = v
	}
	return expand(p.template, func(name string) (string, error) {
		return values[name], nil
	})
}

// Bindable is implemented by request types that fill in a prompt.
type Bindable interface {
	Bind(prompt *Prompt) (*Prompt, error)
}

// Noop binds nothing.
type Noop struct{}

// Bind returns prompt unchanged.
func (Noop) Bind(prompt *Prompt) (*Prompt, error) {
	return prompt, nil
}

// Must panics if err is non-nil. Use it for package-level templates:
//
//	var p = promptbuilder.Must(promptbuilder.NewPrompt(`Hello {{name}}`))
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt is Must(NewPrompt(template)).
func MustNewPrompt(template stringLiteral) *Prompt {
	return Must(NewPrompt(template))
}

// MustBindStringLiteral is Must(p.BindStringLiteral(name, value)).
func (p *Prompt) MustBindStringLiteral(name string, value stringLiteral) *Prompt {
	return Must(p.BindStringLiteral(name, value))
}

// MustBindXML is Must(p.BindXML(name, data)).
func (p *Prompt) MustBindXML(name string, data any) *Prompt {
	return Must(p.BindXML(name, data))
}
