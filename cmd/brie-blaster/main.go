package main

import "github.com/oshokin/brie-blaster/cmd/brie-blaster/cmd"

func main() {
	cmd.Execute()
}
