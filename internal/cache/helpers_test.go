package cache

import (
	"sync"

	"github.com/vvka-141/fscache/internal/files/filesystem"
	"github.com/vvka-141/fscache/pkg/fscache"
)

// fakePlugin counts Compute calls per path and delegates to fn.
type fakePlugin struct {
	mu    sync.Mutex
	deps  []string
	calls map[string]int
	fn    func(path string) (fscache.Value, error)
}

func newFakePlugin(fn func(path string) (fscache.Value, error), deps ...string) *fakePlugin {
	return &fakePlugin{deps: deps, calls: make(map[string]int), fn: fn}
}

func (p *fakePlugin) Compute(path string) (fscache.Value, error) {
	p.mu.Lock()
	p.calls[path]++
	p.mu.Unlock()
	return p.fn(path)
}

func (p *fakePlugin) InvalidationDependencies() []string {
	return p.deps
}

func (p *fakePlugin) callsFor(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[path]
}

func (p *fakePlugin) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

// sizePlugin reports file sizes through fsys, so its stat calls are counted.
func sizePlugin(fsys filesystem.FileSystemProvider) *fakePlugin {
	return newFakePlugin(func(path string) (fscache.Value, error) {
		info, err := fsys.Stat(path)
		if err != nil {
			return nil, err
		}
		return info.Size(), nil
	})
}

// contentPlugin reports file content and is invalidated by size changes.
func contentPlugin(fsys filesystem.FileSystemProvider) *fakePlugin {
	return newFakePlugin(func(path string) (fscache.Value, error) {
		data, err := fsys.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}, "size")
}

type fixture struct {
	engine   *Engine
	mem      *filesystem.MemoryFileSystem
	counting *filesystem.CountingFileSystem
}

// newFixture builds an engine over an in-memory tree:
//
//	/d/a      "123456"
//	/d/b      "xy"
//	/d/sub/c  "c"
//	/d/sub/deep/e "eeee"
//	/empty/
func newFixture(opts ...Option) *fixture {
	mem := filesystem.NewMemoryFileSystem("/")
	mem.AddFile("/d/a", "123456")
	mem.AddFile("/d/b", "xy")
	mem.AddFile("/d/sub/c", "c")
	mem.AddFile("/d/sub/deep/e", "eeee")
	mem.AddDir("/empty")

	counting := filesystem.NewCountingFileSystem(mem)
	opts = append([]Option{WithFileSystem(counting)}, opts...)
	return &fixture{engine: New(opts...), mem: mem, counting: counting}
}

// withAttributes registers size and content plugins reading through the counting filesystem.
func (f *fixture) withAttributes() (size, content *fakePlugin) {
	size = sizePlugin(f.counting)
	content = contentPlugin(f.counting)
	if err := f.engine.RegisterAttribute("size", size); err != nil {
		panic(err)
	}
	if err := f.engine.RegisterAttribute("content", content); err != nil {
		panic(err)
	}
	return size, content
}
