//go:build !linux && !darwin && !windows

package platform

// Notify is a no-op where no notification center is supported.
func Notify(string, string, Options) error { return nil }
