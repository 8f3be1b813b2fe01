package main

import "github.com/greenleaf/plant-notes/cmd"

func main() {
	cmd.Execute()
}
