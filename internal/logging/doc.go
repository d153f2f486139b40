// Package logging centralizes slog construction and shared attribute
// helpers so every component logs with the same field conventions.
package logging
