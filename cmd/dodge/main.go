package main

import "github.com/gronsdodgeball/dodge/cmd/dodge/cmd"

func main() {
	cmd.Execute()
}
