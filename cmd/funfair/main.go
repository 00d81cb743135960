// Package main provides the funfair game binary.
package main

import "github.com/mesh-intelligence/funfair/internal/cli"

func main() {
	cli.Execute()
}
