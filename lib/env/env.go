package env

import "os"

func Debug() bool {
	return os.Getenv("DEBUG") != "" || os.Getenv("LOOPCANVAS_DEBUG") != ""
}
