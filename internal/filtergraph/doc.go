// Package filtergraph builds ffmpeg filter expressions as data. Every filter
// stage the pipeline emits goes through one builder and one escaping
// function, so characters with special meaning in the filter language
// (colon, quote, backslash, newline) are handled in a single place instead
// of at each call site.
package filtergraph
