package main

import "civicsync-be/cmd"

func main() {
	cmd.Execute()
}
