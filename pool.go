package rbm

import (
	"sync"
)

var scratch = struct {
	sync.Mutex
	pools map[int]*sync.Pool
}{pools: make(map[int]*sync.Pool)}

func scratchPool(n int) *sync.Pool {
	scratch.Lock()
	defer scratch.Unlock()
	if p, ok := scratch.pools[n]; ok {
		return p
	}
	p := &sync.Pool{
		New: func() interface{} { return make([]float32, n) },
	}
	scratch.pools[n] = p
	return p
}

// borrowScratch returns a zeroed []float32 of length n. Return it with returnScratch.
func borrowScratch(n int) []float32 {
	retVal := scratchPool(n).Get().([]float32)
	for i := range retVal {
		retVal[i] = 0
	}
	return retVal
}

func returnScratch(a []float32) {
	if a == nil {
		return
	}
	scratchPool(len(a)).Put(a)
}
