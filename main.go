package main

import "github.com/dszqbsm/itdashboard/cmd"

func main() {
	cmd.Execute()
}
