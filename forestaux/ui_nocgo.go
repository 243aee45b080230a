//go:build tinygo || !cgo

package forestaux

import (
	"errors"

	"github.com/nukaishi/tree2forest/scene"
)

func ui(f *scene.Forest, cfg UIConfig) error {
	return errors.New("require cgo for UI rendering")
}
