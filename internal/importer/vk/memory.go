package vk

import "github.com/waylex/waylex/internal/importer"

// allOnesMemoryTypeBits is used when vkGetMemoryFdPropertiesKHR is missing,
// per spec 4.B.3 step 4 ("or all-ones when that entry point is missing").
const allOnesMemoryTypeBits uint32 = 0xFFFFFFFF

// FindMemoryType intersects the image's acceptable memory-type bits with
// the dma-buf's exported memory-type bits and returns the lowest-numbered
// matching index. It returns (-1, importer.ErrNoValidMemoryType) if no bit
// matches, per spec 4.B.3 step 4.
func FindMemoryType(imageBits, dmaBufBits uint32) (int, error) {
	combined := imageBits & dmaBufBits
	for i := 0; i < 32; i++ {
		if combined&(1<<uint(i)) != 0 {
			return i, nil
		}
	}
	return -1, importer.ErrNoValidMemoryType
}

// FindMemoryTypeMissingQuery is FindMemoryType's entry point for when
// vkGetMemoryFdPropertiesKHR isn't present: the dma-buf side is treated as
// accepting every bit.
func FindMemoryTypeMissingQuery(imageBits uint32) (int, error) {
	return FindMemoryType(imageBits, allOnesMemoryTypeBits)
}
