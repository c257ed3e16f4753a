//go:build !unix

package page

// Non-unix platforms have no portable raw mmap primitive in this module's
// dependency set (golang.org/x/sys/unix is unix-only); Mmap falls back to
// the Arena strategy so callers and cmd/slubdemo still build and run.
type Mmap = Arena

// NewMmap builds the non-unix Mmap fallback.
func NewMmap(limitBytes int) (*Mmap, error) {
	return NewArena(limitBytes)
}
