// Package runner executes compiled argument lists against the MKVToolNix
// binaries. It owns the options-file handoff to mkvmerge and nothing else;
// argument compilation stays in the compile package.
package runner
