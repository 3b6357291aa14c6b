// Package main hosts the chipedit CLI.
//
// The Cobra command tree runs the editor pipeline against markdown files on
// disk: inspecting how a document splits into text and image chips,
// attaching images through the local media store, and checking that the
// visual tree serializes back to the same text.
package main
