// Command rulebook is a terminal editor for a personal rule book.
package main

import "github.com/nhle/rulebook/internal/cli"

func main() {
	cli.Execute()
}
