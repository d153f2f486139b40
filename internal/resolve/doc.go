// Package resolve turns symbolic plan references into concrete selections:
// category-copy sentinels and type/language filters become physical track
// ids via the metadata provider, and attachment directories expand into
// individual attachment entries.
package resolve
