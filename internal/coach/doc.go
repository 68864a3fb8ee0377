// Package coach turns a team-composition request into a typed recommendation.
//
// A request flows through four steps: two retrieval queries against the
// hero and map knowledge collections, prompt assembly, one completion call,
// and ParseResponse, which recovers structured fields from the model's free
// text. The prompt and the parser share the section headers declared in
// prompt.go; change them together.
package coach
