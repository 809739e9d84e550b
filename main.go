package main

import "wq-tools/cmd"

func main() {
	cmd.Execute()
}
