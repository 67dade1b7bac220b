package main

import "nazcraft_server/internal/cli"

func main() {
	cli.Execute()
}
