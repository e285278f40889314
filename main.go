package main

import "github.com/bdougie/camwatch/cmd"

func main() {
	cmd.Execute()
}
