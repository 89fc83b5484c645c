//go:build dev

package cli

func init() {
	devMode = true
}
