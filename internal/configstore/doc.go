// Package configstore persists the AntiHook server URL to
// ~/.config/antihook/config.json.
//
// Writes go to a sibling config.json.tmp file which is then renamed onto the
// target, so readers observe either the previous file or the new one and never
// a partial write. Every call reads or writes the disk; nothing is cached.
//
//	store := configstore.New()
//	normalized, err := store.Save(" https://antihub.example/ ")
//	cfg, err := store.Load() // nil, nil when nothing has been saved yet
package configstore
