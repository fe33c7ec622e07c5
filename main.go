package main

import "dog-inventory/cmd"

func main() {
	cmd.Execute()
}
