package main

import (
	"dineassist-backend/cmd/dining-cli/commands"
)

func main() {
	commands.Execute()
}
