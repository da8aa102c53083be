package main

import "feature-manifest/cmd"

func main() {
	cmd.Execute()
}
