package main

import "github.com/theirongolddev/stmtburn/cmd"

func main() {
	cmd.Execute()
}
