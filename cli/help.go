package cli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/util-go/xmain"

	"github.com/loopcanvas/loopcanvas/lib/version"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s export [--background=white] file.json [file.svg | file.png | file.json]
  %[1]s validate file.json ...
  %[1]s serve [--host=localhost] [--port=0] file.json
  %[1]s version

%[1]s export renders file.json to file.svg | file.png, or rewrites it as
normalized pretty-printed JSON. It defaults to file.svg if an output path is
not provided.

Use - to have %[1]s read from stdin or write to stdout.

Flags:
%[3]s

Subcommands:
  %[1]s export file.json [out] - Render a diagram file to SVG, PNG or normalized JSON
  %[1]s validate file.json ... - Validate diagram files and report the first structural error
  %[1]s serve file.json - Serve a live preview that re-renders on every save of the file
  %[1]s version - Print the version
`, filepath.Base(ms.Name), version.Version, ms.Opts.Defaults())
}
