package main

import "github.com/viant/innerfix/cmd/innerfix/cmd"

func main() {
	cmd.Execute()
}
