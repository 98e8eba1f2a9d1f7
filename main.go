package main

import "team-sync/cmd"

func main() {
	cmd.Execute()
}
