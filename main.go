package main

import "github.com/jmehdipour/rfm-dashboard/cmd"

func main() {
	cmd.Execute()
}
