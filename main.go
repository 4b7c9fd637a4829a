package main

import "logistics_control_tower/cmd"

func main() {
	cmd.Execute()
}
