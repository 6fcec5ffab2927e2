package main

import "todo/cmd"

func main() {
	cmd.Execute()
}
