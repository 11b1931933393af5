package main

import "adrsync/internal/cmd"

func main() {
	cmd.Execute()
}
