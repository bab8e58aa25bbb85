package scene

import "errors"

var errFaceCount = errors.New("environment map needs exactly 6 faces")
