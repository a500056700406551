package main

import "github.com/KaramelBytes/dataverify/cmd"

func main() {
	cmd.Execute()
}
