package main

import "diskimage/cmd"

func main() {
	cmd.Execute()
}
