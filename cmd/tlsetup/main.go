package main

import "github.com/tlsetup/tlsetup/cmd/tlsetup/cmd"

func main() {
	cmd.Execute()
}
