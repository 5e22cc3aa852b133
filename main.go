package main

import "github.com/xvierd/dreadline/cmd"

func main() {
	cmd.Execute()
}
