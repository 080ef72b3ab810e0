package main

import "faithkeeper/cmd/client/cmd"

func main() {
	cmd.Execute()
}
