/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package main

import "dominum/cmd"

func main() {
	cmd.Execute()
}
