package models

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRodataStoreEmpty(t *testing.T) {
	s := NewRodataStore()
	_, ok := s.Take()
	require.False(t, ok)
	require.False(t, s.Populated())
}

func TestRodataStoreTake(t *testing.T) {
	s := NewRodataStore()
	s.Store([]byte("abc"), 0x3000)
	r, ok := s.Take()
	require.True(t, ok)
	require.Equal(t, Rodata{Data: []byte("abc"), Base: 0x3000}, r)

	// repeated reads are equal and independent of each other
	r.Data[0] = 'z'
	again, ok := s.Take()
	require.True(t, ok)
	require.Equal(t, []byte("abc"), again.Data)
}

func TestRodataStoreReplace(t *testing.T) {
	s := NewRodataStore()
	s.Store([]byte("first"), 0x3000)
	s.Store([]byte("second"), 0x4000)
	r, ok := s.Take()
	require.True(t, ok)
	require.Equal(t, []byte("second"), r.Data)
	require.Equal(t, uint64(0x4000), r.Base)
}

func TestRodataStoreEmptyPayload(t *testing.T) {
	s := NewRodataStore()
	s.Store(nil, DefaultRodataBase)
	r, ok := s.Take()
	require.True(t, ok)
	require.NotNil(t, r.Data)
	require.Len(t, r.Data, 0)
}

func TestRodataStoreConcurrent(t *testing.T) {
	s := NewRodataStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Store([]byte{byte(i), byte(i)}, uint64(i))
		}(i)
		go func() {
			defer wg.Done()
			if r, ok := s.Take(); ok {
				// a reader never sees a half-installed payload
				assert.Equal(t, byte(r.Base), r.Data[0])
			}
		}()
	}
	wg.Wait()
}
