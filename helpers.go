package slub

import "github.com/nmxmxh/slub-allocator/internal/align"

func alignUp(n, a uintptr) uintptr   { return align.Up(n, a) }
func alignDown(n, a uintptr) uintptr { return align.Down(n, a) }
func roundUpPow2(n uintptr) uintptr  { return align.NextPow2(n) }
