package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "quadrant"}

	root.AddCommand(serveCMD(), migrateCMD(), tokenCMD())
	_ = root.Execute()
}
