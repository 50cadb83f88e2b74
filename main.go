package main

import "github.com/jrnv/webfuzz/cmd"

func main() {
	cmd.Execute()
}
