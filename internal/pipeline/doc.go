// Package pipeline runs the four build stages and reports their results.
//
// Stages:
//   - RunStyle: one stylesheet → prefix → minify → main.min.css, plus the
//     critical subset → critical.css.
//   - RunScript: every .js file of a directory → provenance-marked
//     concatenation → multi-pass minify → bundle.min.js (+ source map).
//   - RunImages: every raster image → same-family re-encode + WebP sibling,
//     on a bounded worker pool. Per-file failures are recorded, never fatal.
//   - RunAudit: size and modern-format coverage audit of a directory or of
//     the images referenced by a web page.
//
// Run dispatches on the configured stage and returns the written artifacts
// so the caller can publish them.
package pipeline
