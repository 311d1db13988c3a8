package main

import "splitHub/app/simulator/cmd"

func main() {
	cmd.Execute()
}
