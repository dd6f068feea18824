package main

import "github.com/streambinder/albumfix/cmd"

func main() {
	cmd.Execute()
}
