package main

import "github.com/WarpedWartWars/lips/cmd"

func main() {
	cmd.Execute()
}
