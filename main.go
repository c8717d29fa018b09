package main

import "github.com/directord/a2dd/cmd"

func main() {
	cmd.Execute()
}
