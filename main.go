package main

import "github.com/conchsh/conch/cmd"

func main() {
	cmd.Execute()
}
