package main

import "github.com/theirongolddev/spesa/cmd"

func main() {
	cmd.Execute()
}
