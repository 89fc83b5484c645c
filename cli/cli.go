// Package cli implements the loopcanvas command line interface: exporting
// diagram files to SVG/PNG/JSON, validating them, and serving a live
// browser preview that re-renders on every save.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"oss.terrastruct.com/util-go/xmain"

	"github.com/loopcanvas/loopcanvas/lib/version"
	"github.com/loopcanvas/loopcanvas/storage"
	"github.com/loopcanvas/loopcanvas/svgrender"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}
	backgroundFlag := ms.Opts.String("LOOPCANVAS_BACKGROUND", "background", "b", svgrender.BackgroundWhite,
		"background for svg and png exports: white, gray or transparent")
	hostFlag := ms.Opts.String("HOST", "host", "h", "localhost", "host listening address when used with serve")
	portFlag := ms.Opts.String("PORT", "port", "p", "0",
		"port listening address when used with serve\n(default 0, which picks a randomly available local port)")
	browserFlag, err := ms.Opts.Bool("BROWSER", "browser", "", true, "open the preview page in a browser when used with serve")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if *debugFlag {
		ms.Env.Setenv("DEBUG", "1")
	}
	if *versionFlag {
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}

	switch *backgroundFlag {
	case svgrender.BackgroundWhite, svgrender.BackgroundGray, svgrender.BackgroundTransparent:
	default:
		return xmain.UsageErrorf("-b[ackground] must be white, gray or transparent. You provided: %s", *backgroundFlag)
	}

	args := ms.Opts.Flags.Args()
	if len(args) == 0 {
		help(ms)
		return nil
	}

	switch args[0] {
	case "export":
		return exportCmd(ctx, ms, *backgroundFlag)
	case "validate":
		return validateCmd(ctx, ms)
	case "serve":
		return serveCmd(ctx, ms, serveOpts{
			host:        *hostFlag,
			port:        *portFlag,
			background:  *backgroundFlag,
			openBrowser: *browserFlag,
		})
	case "version":
		if len(args) > 1 {
			return xmain.UsageErrorf("version subcommand accepts no arguments")
		}
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}
	return xmain.UsageErrorf("unknown command %q. Available commands: export, validate, serve, version", args[0])
}

func exportCmd(ctx context.Context, ms *xmain.State, background string) error {
	args := ms.Opts.Flags.Args()[1:]
	if len(args) == 0 || len(args) > 2 {
		return xmain.UsageErrorf("export expects an input path and an optional output path")
	}
	inputPath := args[0]
	outputPath := renameExt(inputPath, ".svg")
	if len(args) == 2 {
		outputPath = args[1]
	}

	data, err := ms.ReadPath(inputPath)
	if err != nil {
		return err
	}
	d, err := storage.Decode(data)
	if err != nil {
		return err
	}
	err = storage.ExportFile(outputPath, d, background)
	if err != nil {
		return err
	}
	ms.Log.Success.Printf("exported %s to %s", ms.HumanPath(inputPath), ms.HumanPath(outputPath))
	return nil
}

func validateCmd(ctx context.Context, ms *xmain.State) error {
	args := ms.Opts.Flags.Args()[1:]
	if len(args) == 0 {
		return xmain.UsageErrorf("validate expects at least one input path")
	}
	for _, path := range args {
		data, err := ms.ReadPath(path)
		if err != nil {
			return err
		}
		if _, err := storage.Decode(data); err != nil {
			return xmain.ExitErrorf(1, "%s: %v", ms.HumanPath(path), err)
		}
		ms.Log.Success.Printf("%s is valid", ms.HumanPath(path))
	}
	return nil
}

func renameExt(fp string, newExt string) string {
	ext := filepath.Ext(fp)
	if ext == "" {
		return fp + newExt
	}
	return strings.TrimSuffix(fp, ext) + newExt
}
