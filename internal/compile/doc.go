// Package compile turns resolved plans into ordered argument lists for
// mkvmerge and mkvextract. Token order follows option-map insertion order
// and the tools' positional conventions; no shell quoting is performed,
// tokens are discrete argv elements.
package compile
