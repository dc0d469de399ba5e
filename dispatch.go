package rbm

import (
	"sync"

	"github.com/pkg/errors"
)

// Shard is a contiguous range of examples within a minibatch.
type Shard struct {
	Start, Len int
}

// End returns the index one past the last example of the shard.
func (s Shard) End() int { return s.Start + s.Len }

// Of returns the examples of the shard.
func (s Shard) Of(batch [][]float32) [][]float32 { return batch[s.Start:s.End()] }

// Partition splits a minibatch of batchSize examples across threads workers.
// Each worker gets batchSize/threads examples and the last one also takes the remainder.
// If threads <= 0 the whole batch is a single shard.
func Partition(batchSize, threads int) ([]Shard, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("Cannot partition a batch of %d examples", batchSize)
	}
	if threads <= 0 {
		return []Shard{{Start: 0, Len: batchSize}}, nil
	}
	n := batchSize / threads
	if n == 0 {
		return nil, errors.Errorf("%d threads leave some threads with no examples in a batch of %d", threads, batchSize)
	}
	retVal := make([]Shard, threads)
	for i := range retVal {
		retVal[i] = Shard{Start: i * n, Len: n}
	}
	retVal[threads-1].Len += batchSize % threads
	return retVal, nil
}

// minibatch computes the summed gradient of batch. If threads > 0, each shard is processed in its own goroutine,
// otherwise the work is done on the calling goroutine.
//
// The model must not be written to while minibatch runs. The caller owns the returned accumulator.
func (m *RBM) minibatch(batch [][]float32, threads int) (*delta, error) {
	shards, err := Partition(len(batch), threads)
	if err != nil {
		return nil, err
	}

	// seeds are drawn in shard order before any work starts, so that the draws only depend on the shard count.
	deltas := make([]*delta, len(shards))
	samplers := make([]Sampler, len(shards))
	for i := range shards {
		policy := SkipsInputBias
		if i == 0 {
			policy = ContributesInputBias
		}
		deltas[i] = newDelta(&m.Config, policy)
		samplers[i] = m.Sampler(m.r.Int63())
	}

	errs := make([]error, len(shards))
	runShard := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				errs[i] = errors.Errorf("panic: %v", r)
			}
		}()
		errs[i] = m.partialMinibatch(shards[i].Of(batch), deltas[i], samplers[i])
	}
	if threads <= 0 {
		runShard(0)
	} else {
		var wg sync.WaitGroup
		wg.Add(len(shards))
		for i := range shards {
			go func(i int) {
				defer wg.Done()
				runShard(i)
			}(i)
		}
		wg.Wait()
	}

	var failed manyErr
	for i, e := range errs {
		if e != nil {
			failed = append(failed, shardError{shard: shards[i], index: i, err: e})
		}
	}
	if len(failed) > 0 {
		for _, d := range deltas {
			d.release()
		}
		return nil, errors.WithStack(failed)
	}

	retVal := deltas[0]
	for _, d := range deltas[1:] {
		if err := retVal.merge(d); err != nil {
			return nil, err
		}
	}
	return retVal, nil
}

func (m *RBM) partialMinibatch(examples [][]float32, d *delta, s Sampler) error {
	for _, v := range examples {
		if err := m.doBatchMember(v, d, s); err != nil {
			return err
		}
	}
	return nil
}
