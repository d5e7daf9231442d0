package instruction

import (
	"errors"
	"fmt"

	"github.com/vk/iwgo/internal/config"
)

var errNoShapes = errors.New("shapes instruction declares no shapes")

func shapeError(i int, c *config.Component, err error) error {
	return fmt.Errorf("shapes[%d] (%s): %w", i, c.Type, err)
}
