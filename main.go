package main

import "salescopilot/cmd"

func main() {
	cmd.Execute()
}
