package main

import "github.com/dotpages/clrdoc/cmd"

func main() {
	cmd.Execute()
}
