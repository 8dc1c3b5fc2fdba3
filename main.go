// Package main is the RepoCore repository service and analytics engine.
package main

import "github.com/forgeworks/repocore/internal"

func main() {
	internal.Run()
}
