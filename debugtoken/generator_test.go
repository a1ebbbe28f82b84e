package debugtoken

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator(t *testing.T) {
	v := UUIDGenerator{}.GenerateLocalDebugToken()

	_, err := uuid.Parse(v)
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(v), v)
}

func TestRandomGenerator(t *testing.T) {
	v := RandomGenerator{}.GenerateLocalDebugToken()
	assert.Len(t, v, 43) // base64url of 32 bytes

	v = RandomGenerator{Bytes: 16}.GenerateLocalDebugToken()
	assert.Len(t, v, 22)
}

func TestGenerators_Unique(t *testing.T) {
	generators := map[string]Generator{
		"uuid":   UUIDGenerator{},
		"random": RandomGenerator{},
	}

	for name, g := range generators {
		t.Run(name, func(t *testing.T) {
			var mu sync.Mutex
			seen := make(map[string]struct{})

			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					v := g.GenerateLocalDebugToken()
					mu.Lock()
					seen[v] = struct{}{}
					mu.Unlock()
				}()
			}
			wg.Wait()

			assert.Len(t, seen, 50)
		})
	}
}
