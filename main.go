package main

import "github.com/KosOrKosm/simple-shell-unix/cmd"

func main() {
	cmd.Execute()
}
