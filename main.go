package main

import "github.com/yshino/repo-metrics/cmd"

func main() {
	cmd.Execute()
}
