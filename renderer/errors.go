package renderer

import "errors"

var (
	ErrFieldNotDefined   = errors.New("renderer: no field defined")
	ErrTracerNotDefined  = errors.New("renderer: no tracer defined")
	ErrCameraNotDefined  = errors.New("renderer: no camera defined")
	ErrInvalidResolution = errors.New("renderer: invalid resolution")
	ErrInvalidBatchSize  = errors.New("renderer: batch size must be positive")
	ErrInvalidStepCount  = errors.New("renderer: step count must be positive")
	ErrNotRegistered     = errors.New("renderer: no renderer registered for field/tracer combination")
)
