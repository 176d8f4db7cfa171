package main

import "encore/cmd/encorectl/commands"

func main() {
	commands.Execute()
}
