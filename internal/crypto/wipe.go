package crypto

import "runtime"

// Wipe zeroes every buffer it is given. Tokens and derived keys pass through
// here once they are no longer needed.
//
//go:noinline
func Wipe(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
		runtime.KeepAlive(&b)
	}
}
