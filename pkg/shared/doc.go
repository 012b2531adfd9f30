// Package shared holds the cross-cutting types, constants, and helpers used by
// both the sitecms server and its admin client: bilingual text accessors, slug
// generation, pagination arithmetic, sort parsing, payload shaping, and text
// utilities.
package shared
