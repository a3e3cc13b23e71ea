// Package probe reads image headers (format and dimensions) without decoding
// pixel data. JPEG, PNG, GIF and WebP are recognized.
package probe
