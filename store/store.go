// Package store composes components into the Ziggurat layer and variable
// containers and writes them as a datastore directory.
//
// A datastore is a flat directory of container files linked by UUID: layers
// carry the ".zigl" extension, variables ".zigv". The store is built bottom
// up, beginning with a primary layer that defines the corpus positions, then
// variables over it, then segmentation layers and their variables.
package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/etemenanki/ziggurat/container"
	"github.com/etemenanki/ziggurat/internal/options"
)

// Object is a datastore object backed by exactly one container.
type Object interface {
	UUID() uuid.UUID
	Container() *container.Container
}

// Layer declares a sequence of positions other containers can reference.
type Layer interface {
	Object
	// Len returns the number of positions the layer declares.
	Len() int64
}

// Variable annotates the positions of a base layer.
type Variable interface {
	Object
	// Base returns the layer the variable annotates.
	Base() Layer
}

// config collects the options shared by all layer and variable constructors.
type config struct {
	uid          uuid.UUID
	hasUUID      bool
	comment      string
	uncompressed bool
	delta        bool
}

// Option configures a layer or variable constructor.
type Option = options.Option[*config]

// WithUUID fixes the container UUID instead of generating a random v4.
func WithUUID(uid uuid.UUID) Option {
	return options.NoError(func(c *config) {
		c.uid = uid
		c.hasUUID = true
	})
}

// WithComment sets the container comment.
func WithComment(comment string) Option {
	return options.NoError(func(c *config) {
		c.comment = comment
	})
}

// WithUncompressed selects raw storage (mode 0x00) for every component that
// also has a raw form. Set and InvertedIndex components have none and stay
// compressed.
func WithUncompressed() Option {
	return options.NoError(func(c *config) {
		c.uncompressed = true
	})
}

// WithDeltaStream selects block-delta storage for integer streams whose
// values grow monotonically, such as byte offsets.
func WithDeltaStream() Option {
	return options.NoError(func(c *config) {
		c.delta = true
	})
}

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// containerUUID returns the configured UUID or a fresh random v4.
func (c *config) containerUUID() uuid.UUID {
	if c.hasUUID {
		return c.uid
	}

	return uuid.New()
}

// Datastore is a directory of container files.
type Datastore struct {
	dir string
}

// Create prepares the datastore directory. An existing directory is refused
// unless force is set; its files are then overwritten one by one as objects
// are written.
func Create(dir string, force bool) (*Datastore, error) {
	if _, err := os.Stat(dir); err == nil && !force {
		return nil, fmt.Errorf("output directory %s already exists", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create datastore directory: %w", err)
	}

	return &Datastore{dir: dir}, nil
}

// Dir returns the datastore directory.
func (d *Datastore) Dir() string {
	return d.dir
}

// Write emits obj as "<name>.zigl" or "<name>.zigv" depending on its
// container class. The name may contain slashes; intermediate directories
// are created as needed. A failed write leaves the partial file in place.
func (d *Datastore) Write(name string, obj Object) (string, error) {
	ext := ".zigv"
	if obj.Container().Type().IsLayer() {
		ext = ".zigl"
	}
	path := filepath.Join(d.dir, name+ext)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if _, err := obj.Container().Write(w); err != nil {
		f.Close()
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}
