package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Epoch is Mon Dec 01 2025 00:00:00.000 WIB, in milliseconds.
const Epoch int64 = 1764522000000

var setEpoch sync.Once

// Snowflake generates numeric IDs using the Snowflake algorithm.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	err := binary.Read(rand.Reader, binary.BigEndian, &nodeID)
	if err != nil {
		return 0, err
	}

	return nodeID & (1<<10 - 1), nil // Limiting to 10 bits for node ID
}

// NewSnowflake constructs a Snowflake generator with a random node ID.
func NewSnowflake() (*Snowflake, error) {
	nodeID, err := generateRandomNodeID()
	if err != nil {
		return nil, err
	}

	return NewSnowflakeNode(nodeID)
}

// NewSnowflakeNode constructs a Snowflake generator for a fixed node (0..1023).
func NewSnowflakeNode(nodeID int64) (*Snowflake, error) {
	setEpoch.Do(func() {
		snowflake.Epoch = Epoch
	})

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// ParseNumber parses a numeric ID received as text, such as a path parameter.
func ParseNumber(raw string) (int64, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, err
	}
	if id.Int64() <= 0 {
		return 0, strconv.ErrRange
	}
	return id.Int64(), nil
}
