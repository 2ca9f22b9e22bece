// Package haldai holds project-wide metadata.
package haldai

// Version is the release version of the haldai module and CLI. Release
// builds set it with -ldflags "-X".
var Version = "v0.1.0"
