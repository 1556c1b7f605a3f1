package main

import "github.com/josephlewis42/relaysh/cmd"

func main() {
	cmd.Execute()
}
