package main

import "github.com/alde/pixelwise/cmd"

func main() {
	cmd.Execute()
}
