package main

import "github.com/preview-labs/prevu/cmd"

func main() {
	cmd.Execute()
}
