package renderer

import "errors"

var (
	ErrRenderRunning    = errors.New("renderer: operation not allowed while rendering")
	ErrEmptyImage       = errors.New("renderer: image size must be positive")
	ErrBufferAllocation = errors.New("renderer: cannot allocate pixel buffer")
	ErrPoolClosed       = errors.New("renderer: worker pool is closed")
)
