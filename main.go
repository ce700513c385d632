package main

import "github.com/dataglue/framediff/cmd"

func main() {
	cmd.Execute()
}
