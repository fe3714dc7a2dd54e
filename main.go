package main

import (
	"github.com/sw33tLie/genscope/cmd"
)

func main() {
	cmd.Execute()
}
