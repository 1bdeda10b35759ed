package cache

import (
	"sort"
	"sync"

	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/lua_ast"
)

// This cache maps the path of an acquired file to its syntax tree. A path is
// only ever parsed once per build no matter how many times it's acquired.
// Entries are only added, never replaced or removed.

type ModuleCache struct {
	entries map[string]*Module
	mutex   sync.Mutex
}

type Module struct {
	Source logger.Source
	AST    lua_ast.AST
}

func (c *ModuleCache) Get(path string) (*Module, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	module, ok := c.entries[path]
	return module, ok
}

// Set records the module parsed from a path. The first module stored for a
// path wins and is the one returned.
func (c *ModuleCache) Set(path string, module *Module) *Module {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if existing, ok := c.entries[path]; ok {
		return existing
	}
	c.entries[path] = module
	return module
}

func (c *ModuleCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

// Keys returns every cached path in sorted order
func (c *ModuleCache) Keys() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
