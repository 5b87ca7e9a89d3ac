package main

import "github.com/amterp/flagmaker/internal/cli"

func main() {
	cli.Run()
}
