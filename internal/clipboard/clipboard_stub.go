//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "fmt"

// WritePNG publishes already encoded PNG data.
func WritePNG([]byte) error {
	return fmt.Errorf("clipboard image operations are not supported on this platform")
}
