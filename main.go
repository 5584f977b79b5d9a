package main

import "inkdo/internal/cli"

func main() {
	cli.Execute()
}
