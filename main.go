package main

import "video-catalog/cmd"

func main() {
	cmd.Execute()
}
