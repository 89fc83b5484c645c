package main

import (
	"oss.terrastruct.com/util-go/xmain"

	"github.com/loopcanvas/loopcanvas/cli"
)

func main() {
	xmain.Main(cli.Run)
}
