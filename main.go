package main

import "github.com/elannasinada/AutoPrix/pkg/cmd"

func main() {
	cmd.Execute()
}
