package main

import "dexsource/cmd"

func main() {
	cmd.Execute()
}
