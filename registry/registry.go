// Package registry holds every known image-format plugin and probes them,
// in registration order, against an opened Filter to find the one that
// claims it.
package registry

import (
	"diskimage/filter"
	"diskimage/image"

	"github.com/pkg/errors"
)

// Registry is an ordered set of image-format plugins.
type Registry struct {
	plugins []Factory
}

// Factory constructs a fresh, unopened Plugin instance. A registry holds
// factories rather than live plugins because Identify/Open mutate plugin
// state (Info, tracks, ...) and a probe against one filter must not leak
// into the next.
type Factory func() image.Plugin

// New builds an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Register appends a plugin factory to the end of the probe order.
func (r *Registry) Register(f Factory) {
	r.plugins = append(r.plugins, f)
}

// Detect asks each registered plugin's Identify in order and returns a
// freshly constructed instance of the first match, unopened. identify()
// calls must be side-effect-free with respect to the filter's read
// position; Detect does not itself rewind the filter between probes, so
// conforming plugins must restore position themselves (storage.Reader.Seek
// makes this cheap).
func (r *Registry) Detect(f filter.Filter) (image.Plugin, error) {
	for _, factory := range r.plugins {
		p := factory()
		if p.Identify(f) {
			return p, nil
		}
	}
	return nil, errors.WithStack(image.Newf(image.NotIdentified, "no registered plugin claims %q", f.BasePath()))
}

// Open is a convenience wrapping Detect + Open: it finds the claiming
// plugin and fully parses f against it.
func (r *Registry) Open(f filter.Filter) (image.Plugin, error) {
	p, err := r.Detect(f)
	if err != nil {
		return nil, err
	}
	if err := p.Open(f); err != nil {
		return nil, errors.Wrapf(err, "open failed for plugin %q", p.Name())
	}
	return p, nil
}
