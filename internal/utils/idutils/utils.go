package idutils

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

var (
	sfNode     *snowflake.Node
	sfNodeErr  error
	sfNodeOnce sync.Once
)

// SetNodeID sets the snowflake node number of this instance. It must be called before the first ID is generated;
// instances behind the same load balancer need distinct node numbers.
func SetNodeID(nodeID int64) error {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return errors.Wrap(err, "número de nodo no válido")
	}

	sfNodeOnce.Do(func() {})
	sfNode, sfNodeErr = node, nil
	return nil
}

// GenerateSnowflakeId generates a time-ordered unique ID.
func GenerateSnowflakeId() (string, error) {
	sfNodeOnce.Do(func() {
		sfNode, sfNodeErr = snowflake.NewNode(1)
	})
	if sfNodeErr != nil {
		return "", errors.Wrap(sfNodeErr, "no se pudo generar el ID")
	}

	return sfNode.Generate().String(), nil
}
