package main

import (
	"os"

	"k8s.io/klog/v2"

	"github.com/danieljhkim/hadoop-node/internal/cli"
)

func main() {
	err := cli.Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
