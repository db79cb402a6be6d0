package main

import "github.com/agentic-research/scribe/cmd"

func main() {
	cmd.Execute()
}
