package main

import "github.com/maximbilan/promptrelay/cmd"

func main() {
	cmd.Execute()
}
