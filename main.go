package main

import "github.com/gujord/pwa-validator/cmd"

func main() {
	cmd.Execute()
}
