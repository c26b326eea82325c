// Package pathio reads and writes reference path files.
//
// Three formats are supported, selected by file extension:
//
//	.json        {"name": ..., "description": ..., "vertices": [[x, y], ...]}
//	.yaml, .yml  the same document in YAML
//	.csv         one "x,y" row per vertex, with an optional header row
//
// Load checks that the file lies inside an allowed directory before opening
// it. Decoded paths are validated by building a frenet.PathMatcher.
package pathio
