// Package identify wraps `mkvmerge -J` as the metadata provider consumed
// by track resolution, with an optional SQLite-backed result cache.
package identify
