package main

import "package-pruner/internal/cli"

func main() {
	cli.Execute()
}
