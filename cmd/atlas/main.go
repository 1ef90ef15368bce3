package main

import "github.com/frostleo/atlas/pkg/cli"

func main() {
	cli.Execute()
}
