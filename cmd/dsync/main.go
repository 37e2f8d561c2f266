// Command dsync builds a meta-tree of torrent metainfo artifacts for one
// or more source files or directories.
package main

import "github.com/javanhut/dsync/cli"

func main() {
	cli.Execute()
}
