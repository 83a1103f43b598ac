package main

import "github.com/lepinkainen/sanad/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
