// Command mkvplan compiles declarative JSON plans into mkvmerge and
// mkvextract invocations and optionally runs them.
package main
