package main

import "github.com/courtside/courtside/cmd"

func main() {
	cmd.Execute()
}
