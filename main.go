package main

import "github.com/attendance-management/cmd"

func main() {
	cmd.Execute()
}
