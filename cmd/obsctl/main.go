package main

import "obs-engine/cmd/obsctl/cmd"

func main() {
	cmd.Execute()
}
