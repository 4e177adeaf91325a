package status

import (
	"bytes"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricMap_GetCachesPointer(t *testing.T) {
	r := NewRegistry()

	a := r.Ints.Get(KeyFadeSteps)
	b := r.Ints.Get(KeyFadeSteps)
	assert.Same(t, a, b)
	assert.NotSame(t, a, r.Ints.Get(KeyClockTicks))
}

func TestMetricMap_ConcurrentGet(t *testing.T) {
	m := NewMetricMap[int]()

	var wg sync.WaitGroup
	ptrs := make([]*int, 16)
	for i := range ptrs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ptrs[i] = m.Get("shared")
		}(i)
	}
	wg.Wait()

	for _, p := range ptrs {
		assert.Same(t, ptrs[0], p)
	}
	keys := 0
	m.Range(func(string, *int) { keys++ })
	assert.Equal(t, 1, keys)
}

func TestAtomicString_Truncates(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())

	s.Store(strings.Repeat("x", MaxStringLen+5))
	assert.Len(t, s.Load(), MaxStringLen)
}

func TestRegistry_ReportSorted(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(KeyFadeSteps).Store(12)
	r.Ints.Get(KeyClockTicks).Store(99)
	r.Bools.Get(KeyDisplayQuit).Store(true)
	r.Strings.Get(KeyFadeState).Store("settled")

	var buf bytes.Buffer
	r.Report(log.New(&buf, "", 0))

	assert.Equal(t, "clock.ticks=99\nfade.steps=12\ndisplay.quit=true\nfade.state=settled\n", buf.String())
}
