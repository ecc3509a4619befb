package assets

import "github.com/spaghettifunk/meshview/engine/renderer/metadata"

// Loader fills buf with the geometry read from path. On error buf is left as
// it was.
type Loader interface {
	Load(path string, buf *metadata.GeometryBuffer) error
}
