package rbm

import (
	"bytes"
	"fmt"
)

type shardError struct {
	shard Shard
	index int
	err   error
}

func (err shardError) Error() string {
	return fmt.Sprintf("Shard %d (examples %d to %d) failed: %v", err.index, err.shard.Start, err.shard.End(), err.err)
}

func (err shardError) Cause() error { return err.err }

type manyErr []error

func (err manyErr) Error() string {
	var buf bytes.Buffer
	for _, e := range err {
		fmt.Fprintln(&buf, e.Error())
	}
	return buf.String()
}
