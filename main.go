package main

import "TimeCanvasGo/cmd"

func main() {
	cmd.Execute()
}
