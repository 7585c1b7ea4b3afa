package main

import "scenegen/cmd"

func main() {
	cmd.Execute()
}
