package rbm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var partitionTests = []struct {
	batchSize, threads int
	correct            []Shard
	willErr            bool
}{
	{10, 0, []Shard{{0, 10}}, false},
	{10, -3, []Shard{{0, 10}}, false},
	{10, 1, []Shard{{0, 10}}, false},
	{10, 2, []Shard{{0, 5}, {5, 5}}, false},
	{10, 3, []Shard{{0, 3}, {3, 3}, {6, 4}}, false},
	{10, 4, []Shard{{0, 2}, {2, 2}, {4, 2}, {6, 4}}, false},
	{10, 10, []Shard{{0, 1}, {1, 1}, {2, 1}, {3, 1}, {4, 1}, {5, 1}, {6, 1}, {7, 1}, {8, 1}, {9, 1}}, false},
	{10, 11, nil, true},
	{0, 1, nil, true},
}

func TestPartition(t *testing.T) {
	for _, c := range partitionTests {
		shards, err := Partition(c.batchSize, c.threads)
		switch {
		case c.willErr && err == nil:
			t.Errorf("Expected Partition(%d, %d) to fail", c.batchSize, c.threads)
			continue
		case !c.willErr && err != nil:
			t.Errorf("Partition(%d, %d): %v", c.batchSize, c.threads, err)
			continue
		}
		if diff := cmp.Diff(c.correct, shards); diff != "" {
			t.Errorf("Partition(%d, %d) mismatch (-want +got):\n%s", c.batchSize, c.threads, diff)
		}
	}
}

// every example of the batch is covered by exactly one shard
func TestPartition_Cover(t *testing.T) {
	for batchSize := 1; batchSize <= 40; batchSize++ {
		for threads := 1; threads <= batchSize; threads++ {
			shards, err := Partition(batchSize, threads)
			if err != nil {
				t.Fatalf("Partition(%d, %d): %v", batchSize, threads, err)
			}
			covered := make([]int, batchSize)
			var total int
			for _, s := range shards {
				if s.Len <= 0 {
					t.Errorf("Partition(%d, %d) has an empty shard %v", batchSize, threads, s)
				}
				for i := s.Start; i < s.End(); i++ {
					covered[i]++
				}
				total += s.Len
			}
			if total != batchSize {
				t.Errorf("Partition(%d, %d) covers %d examples", batchSize, threads, total)
			}
			for i, c := range covered {
				if c != 1 {
					t.Errorf("Partition(%d, %d) covers example %d %d times", batchSize, threads, i, c)
				}
			}
		}
	}
}

func TestShard_Of(t *testing.T) {
	batch := [][]float32{{0}, {1}, {2}, {3}}
	s := Shard{Start: 1, Len: 2}
	assert.Equal(t, [][]float32{{1}, {2}}, s.Of(batch))
	assert.Equal(t, 3, s.End())
}

func testBatch(n, inputs int) [][]float32 {
	retVal := make([][]float32, n)
	for i := range retVal {
		retVal[i] = make([]float32, inputs)
		for j := range retVal[i] {
			if (i+j)%3 == 0 {
				retVal[i][j] = 1
			}
		}
	}
	return retVal
}

func TestMinibatch_OneThreadIsSequential(t *testing.T) {
	assert := assert.New(t)
	conf := DefaultConf(5, 3)
	conf.BatchSize = 8
	conf.Seed = 1337
	a := newTestRBM(t, conf)
	b := newTestRBM(t, conf)
	b.SetWeights(a.w)
	batch := testBatch(conf.BatchSize, conf.Inputs)

	seq, err := a.minibatch(batch, 0)
	if err != nil {
		t.Fatal(err)
	}
	par, err := b.minibatch(batch, 1)
	if err != nil {
		t.Fatal(err)
	}
	assert.InDeltaSlice(toFloat64s(seq.dW.Data().([]float32)), toFloat64s(par.dW.Data().([]float32)), 1e-6)
	assert.InDeltaSlice(toFloat64s(seq.dBiasIn), toFloat64s(par.dBiasIn), 1e-6)
	assert.InDeltaSlice(toFloat64s(seq.dBiasOut), toFloat64s(par.dBiasOut), 1e-6)
}

// The gradient, including the input bias, does not depend on how the batch is split.
func TestMinibatch_ThreadCountInvariant(t *testing.T) {
	conf := DefaultConf(6, 4)
	conf.BatchSize = 12
	conf.Sampler = fixedSampler(0.5)
	m := newTestRBM(t, conf)
	batch := testBatch(conf.BatchSize, conf.Inputs)

	want, err := m.minibatch(batch, 0)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ContributesInputBias, want.policy)
	for threads := 1; threads <= conf.BatchSize; threads++ {
		t.Run(fmt.Sprintf("%d threads", threads), func(t *testing.T) {
			assert := assert.New(t)
			got, err := m.minibatch(batch, threads)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(ContributesInputBias, got.policy, "the reduced gradient carries the input bias exactly once")
			assert.Equal(conf.BatchSize, got.examples)
			assert.InDeltaSlice(toFloat64s(want.dW.Data().([]float32)), toFloat64s(got.dW.Data().([]float32)), 1e-5)
			assert.InDeltaSlice(toFloat64s(want.dBiasIn), toFloat64s(got.dBiasIn), 1e-5)
			assert.InDeltaSlice(toFloat64s(want.dBiasOut), toFloat64s(got.dBiasOut), 1e-5)
			assert.InDelta(want.sqErr, got.sqErr, 1e-4)
		})
	}
}

type panicky struct{}

func (panicky) Bernoulli(p float32) float32 { panic("no more entropy") }

func TestMinibatch_Errors(t *testing.T) {
	conf := DefaultConf(3, 2)
	conf.BatchSize = 4
	m := newTestRBM(t, conf)

	batch := testBatch(conf.BatchSize, conf.Inputs)
	batch[3] = batch[3][:2]
	if _, err := m.minibatch(batch, 2); err == nil {
		t.Error("Expected a short example to fail the minibatch")
	} else if !strings.Contains(err.Error(), "Shard 1") {
		t.Errorf("Expected the error to name the failing shard. Got %v", err)
	}
	if _, err := m.minibatch(batch, 0); err == nil {
		t.Error("Expected a short example to fail the sequential minibatch")
	}

	m.Sampler = func(int64) Sampler { return panicky{} }
	for _, threads := range []int{2, 0} {
		if _, err := m.minibatch(testBatch(conf.BatchSize, conf.Inputs), threads); err == nil {
			t.Errorf("Expected a panicking worker to fail the minibatch on %d threads", threads)
		} else if !strings.Contains(err.Error(), "no more entropy") {
			t.Errorf("Expected the panic to be reported. Got %v", err)
		}
	}

	if _, err := m.minibatch(testBatch(conf.BatchSize, conf.Inputs), 5); err == nil {
		t.Error("Expected more threads than examples to fail")
	}
}
