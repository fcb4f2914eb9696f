package main

import "cyclecheck/cmd"

func main() {
	cmd.Execute()
}
