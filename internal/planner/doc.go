// Package planner decides, per source image, what the transcode stage will
// produce: the re-encode target for its format family, where the re-encoded
// copy and the WebP sibling are written, and a short human-readable target
// description for logging.
package planner
