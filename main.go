package main

import "github.com/kamal-hamza/dgrab/cmd"

func main() {
	cmd.Execute()
}
