package main

import "freight-relay/cmd"

func main() {
	cmd.Execute()
}
