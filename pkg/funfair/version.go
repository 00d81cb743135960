// Package funfair holds build metadata for the funfair module.
package funfair

// Version is the release version reported by the CLI.
const Version = "0.3.0"
