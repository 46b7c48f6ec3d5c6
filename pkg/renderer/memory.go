package renderer

import (
	"fmt"
	"math"

	"github.com/shirou/gopsutil/mem"
)

// availableMemory reports the bytes the system can still hand out. Tests
// replace it.
var availableMemory = func() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// bufferSize returns the RGBA8 buffer size for the image, refusing sizes
// that overflow int or exceed the available memory
func bufferSize(width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, ErrEmptyImage
	}
	if width > math.MaxInt/4/height {
		return 0, fmt.Errorf("%dx%d overflows: %w", width, height, ErrBufferAllocation)
	}
	size := width * height * 4

	available, err := availableMemory()
	if err != nil {
		// Without a reading only the overflow check applies
		logger.Warningf("reading available memory: %v", err)
		return size, nil
	}
	if uint64(size) > available {
		return 0, fmt.Errorf("%dx%d needs %d bytes, %d available: %w",
			width, height, size, available, ErrBufferAllocation)
	}
	return size, nil
}
