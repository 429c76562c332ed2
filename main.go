package main

import "github.com/Alturino/dailycoffee/cmd"

func main() {
	cmd.Start()
}
