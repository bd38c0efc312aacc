package main

import "github.com/RyanBlaney/sonido-wbp/internal/cli"

func main() {
	cli.Execute()
}
