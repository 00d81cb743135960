// Package types defines the save document, score entries, the scene and save
// store contracts, and the standard errors shared by the funfair core.
//
// Gameplay code outside the core depends only on this package, the session
// accessors, and the transition bag; it never touches save files directly.
package types
