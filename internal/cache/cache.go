package cache

// A CacheSet holds everything one build remembers about the files it has
// seen. The information in the cache must be considered immutable:
//
//   - Syntax trees in the module cache are shared by every place that embeds
//     them. Code that needs to change a cached tree must change a clone of it
//     (see "lua_ast.CloneBlock") instead.
//
//   - An entry must only depend on the contents of the file it was made from.
//     Nothing invalidates an entry when some other file changes.
type CacheSet struct {
	FSCache     FSCache
	ModuleCache ModuleCache
}

func MakeCacheSet() *CacheSet {
	return &CacheSet{
		FSCache: FSCache{
			entries: make(map[string]*fsEntry),
		},
		ModuleCache: ModuleCache{
			entries: make(map[string]*Module),
		},
	}
}
