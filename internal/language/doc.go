// Package language normalizes language codes so plan filters expressed as
// ISO 639-1, ISO 639-2, or word forms match the codes mkvmerge reports.
package language
