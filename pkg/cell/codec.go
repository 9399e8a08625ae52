package cell

import "github.com/mesh-intelligence/grid/internal/codec"

var json = codec.JSON
