// Package utils provides bespoke, one off utils that don't make sense to be
// their own package
package utils

// Build identification, overridden at link time via -ldflags.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
