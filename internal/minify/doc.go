// Package minify wraps the CSS and JavaScript engines behind small,
// configuration-driven transforms.
//
// Types:
//   - Prefixer: esbuild CSS transform with browser engine targets, adds
//     vendor-prefixed fallbacks without minifying.
//   - StyleMinifier: tdewolff CSS minifier plus a check that every
//     @keyframes name survives.
//   - ScriptMinifier: esbuild JS minifier run for two or more passes,
//     producing an external source map.
//
// Engine failures are returned as *EngineError carrying every diagnostic.
package minify
