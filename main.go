package main

import "relbot/cmd"

func main() {
	cmd.Execute()
}
