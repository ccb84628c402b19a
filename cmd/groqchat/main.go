package main

import "github.com/diogo/groqchat/internal/commands"

func main() {
	commands.Execute()
}
