// Package archive converts folders to and from a zip of indented text files.
//
// Each folder becomes one entry under a directory named for its tier (S, A,
// B, C, D, F) or the unsorted directory. An entry holds one line per task:
//
//	[ ] write report
//	  [x] outline
//	  [ ] draft
//
// Two spaces per depth level. Import reverses this and also accepts bullet
// markers, a "[S] " tier prefix on the file name, and a trailing " (N)" count.
package archive
