package main

import (
    "os"

    "github.com/cristianadrielbraun/qrforge/cmd"
)

func main() {
    if err := cmd.Execute(); err != nil {
        os.Exit(1)
    }
}
