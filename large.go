package slub

import (
	"unsafe"

	"github.com/nmxmxh/slub-allocator/page"
)

// bigHeader is placed immediately before every large-object user pointer.
// Its layout — magic, page count, raw base — is fixed per the package
// contract: raw_base need not equal the user address once alignment
// padding is applied.
type bigHeader struct {
	magic   uint32
	pages   uint32
	rawBase uintptr
}

var bigHeaderSize = unsafe.Sizeof(bigHeader{})

// allocLarge services a request too big for any slab class: it asks the
// page provider for enough pages to hold the header, the alignment slop,
// and n bytes, then carves the user pointer and header out of that block.
func allocLarge(p page.Provider, n uintptr) (uintptr, *bigHeader, error) {
	need := n + bigHeaderSize + Align - 1
	pages := int((need + page.PageSize - 1) / page.PageSize)

	rawBase, err := p.AllocPages(pages)
	if err != nil {
		return 0, nil, err
	}

	user := alignUp(rawBase+bigHeaderSize, Align)
	h := (*bigHeader)(unsafe.Pointer(user - bigHeaderSize))
	*h = bigHeader{magic: Magic, pages: uint32(pages), rawBase: rawBase}

	return user, h, nil
}

// bigHeaderUnchecked reinterprets the bytes just before user as a
// bigHeader, without validating the magic. Neither SlubAllocator (which
// keeps header pointers in largeObjects) nor TypedAllocator (which writes
// no header) calls it; the tests use it to check where allocLarge placed
// the header.
func bigHeaderUnchecked(user uintptr) *bigHeader {
	return (*bigHeader)(unsafe.Pointer(user - bigHeaderSize))
}

func freeLarge(p page.Provider, h *bigHeader) error {
	return p.FreePages(h.rawBase, int(h.pages))
}
