package schema

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/land-surface/dirconf/ascii"
	"github.com/land-surface/dirconf/codec"
	"github.com/land-surface/dirconf/namelist"
)

var (
	NamelistExtensions = []string{".nml"}
	AsciiExtensions    = []string{".asc", ".dat", ".txt"}
	NetcdfExtensions   = []string{".nc", ".cdf"}
)

// Registry maps codec names and file extensions to codecs, and handler
// names to factories usable from YAML declarations.
type Registry struct {
	mu sync.RWMutex

	codecs   map[string]codec.Codec
	exts     map[string]string
	handlers map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		codecs:   make(map[string]codec.Codec),
		exts:     make(map[string]string),
		handlers: make(map[string]Factory),
	}
}

// DefaultRegistry returns a new registry holding the namelist, ascii and
// netcdf codecs with default options.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegisterCodec("namelist", namelist.NewCodec(), NamelistExtensions...)
	r.MustRegisterCodec("ascii", ascii.NewCodec(), AsciiExtensions...)
	r.MustRegisterCodec("netcdf", codec.Raw, NetcdfExtensions...)
	return r
}

// RegisterCodec registers c under name and claims the given extensions.
func (r *Registry) RegisterCodec(name string, c codec.Codec, exts ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || c == nil {
		return fmt.Errorf("codec must have a name and an implementation")
	}
	if _, exists := r.codecs[name]; exists {
		return fmt.Errorf("codec %q already registered", name)
	}
	norm := make([]string, len(exts))
	for i, ext := range exts {
		norm[i] = normExt(ext)
		if other, exists := r.exts[norm[i]]; exists {
			return fmt.Errorf("extension %q already claimed by codec %q", norm[i], other)
		}
	}
	r.codecs[name] = c
	for _, ext := range norm {
		r.exts[ext] = name
	}
	return nil
}

func (r *Registry) MustRegisterCodec(name string, c codec.Codec, exts ...string) {
	if err := r.RegisterCodec(name, c, exts...); err != nil {
		panic(err)
	}
}

// RegisterHandler registers a named factory.
func (r *Registry) RegisterHandler(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || f == nil {
		return fmt.Errorf("handler must have a name and a factory")
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("handler %q already registered", name)
	}
	r.handlers[name] = f
	return nil
}

func (r *Registry) Codec(name string) (codec.Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codecs[name]
	return c, ok
}

// CodecFor looks up a codec by the extension of path.
func (r *Registry) CodecFor(path string) (string, codec.Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.exts[normExt(filepath.Ext(path))]
	if !ok {
		return "", nil, false
	}
	return name, r.codecs[name], true
}

func (r *Registry) Handler(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.handlers[name]
	return f, ok
}

// Extensions returns every claimed extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]string, 0, len(r.exts))
	for ext := range r.exts {
		res = append(res, ext)
	}
	sort.Strings(res)
	return res
}

func normExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
