package cache

import (
	"strings"
	"testing"

	"github.com/luabundle/luabundle/internal/fs"
	"github.com/luabundle/luabundle/internal/logger"
	"github.com/luabundle/luabundle/internal/test"
)

func TestFSCache(t *testing.T) {
	mock := fs.MockFS(map[string]string{"./test/main.lua": "print(1)"})
	caches := MakeCacheSet()

	contents, err, _ := caches.FSCache.ReadFile(mock, "./test/main.lua")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, contents, "print(1)")

	// The mock has no modification keys, so every read goes to the file system
	contents, err, _ = caches.FSCache.ReadFile(mock, "./test/main.lua")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, contents, "print(1)")
	test.AssertEqual(t, mock.ReadCount("./test/main.lua"), 2)

	_, err, _ = caches.FSCache.ReadFile(mock, "./test/missing.lua")
	test.AssertEqual(t, fs.IsNotExist(err), true)
}

func TestModuleCache(t *testing.T) {
	caches := MakeCacheSet()
	c := &caches.ModuleCache
	test.AssertEqual(t, c.Len(), 0)

	_, ok := c.Get("./test/a.lua")
	test.AssertEqual(t, ok, false)

	first := &Module{Source: logger.Source{KeyPath: "./test/b.lua"}}
	test.AssertEqual(t, c.Set("./test/b.lua", first), first)
	test.AssertEqual(t, c.Set("./test/a.lua", &Module{}) != nil, true)

	// Entries are never replaced
	second := &Module{Source: logger.Source{KeyPath: "./test/b.lua", Contents: "changed"}}
	test.AssertEqual(t, c.Set("./test/b.lua", second), first)

	module, ok := c.Get("./test/b.lua")
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, module, first)
	test.AssertEqual(t, c.Len(), 2)
	test.AssertEqual(t, strings.Join(c.Keys(), ","), "./test/a.lua,./test/b.lua")
}
