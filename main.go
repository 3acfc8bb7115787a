package main

import "github.com/epidados/sragpipe/cmd"

func main() {
	cmd.Execute()
}
