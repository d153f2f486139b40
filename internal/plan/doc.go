// Package plan defines the declarative mux and extract plan model: ordered
// option maps, track selectors, attachments, and the JSON document loaders
// that validate incoming plans against embedded schemas.
package plan
