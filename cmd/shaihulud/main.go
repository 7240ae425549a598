package main

import "shaihulud/internal/cmd"

func main() {
	cmd.Execute()
}
