package main

import "github.com/virtuadex/videogrep/internal/cli"

func main() {
	cli.Main()
}
