package vm

import (
	"github.com/wevanson/classvm/internal/classfile"
	"github.com/wevanson/classvm/internal/trace"
)

// ClassRegistry holds every class loaded for one run, keyed by binary
// name, mirroring the original's ClassManager: a flat list searched by
// name rather than a full classloader delegation hierarchy, since this
// interpreter loads every class up front from the command line.
type ClassRegistry struct {
	classes map[string]*classfile.Class
}

// NewClassRegistry returns an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]*classfile.Class)}
}

// Load decodes b as a class file and adds it to the registry, keyed by
// its own declared name. It returns the decode error unchanged on
// failure.
func (r *ClassRegistry) Load(b []byte) (*classfile.Class, error) {
	class, err := classfile.Decode(b)
	if err != nil {
		return nil, err
	}
	name := class.Name().GoString()
	trace.Trace("loaded class " + name)
	r.classes[name] = class
	return class, nil
}

// Get looks up a previously loaded class by its binary name (e.g.
// "com/example/Main").
func (r *ClassRegistry) Get(name string) (*classfile.Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}
