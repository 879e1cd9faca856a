package main

import "github.com/theirongolddev/pfm/cmd"

func main() {
	cmd.Execute()
}
