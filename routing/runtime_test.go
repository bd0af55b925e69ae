package routing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGetGroup(t *testing.T) {
	r := NewRuntime()
	r.RegisterGroup("main", []string{"DIRECT", "proxy-a"})

	g, ok := r.GetGroup("main")
	require.True(t, ok)
	assert.Equal(t, "main", g.Name())
	assert.Equal(t, "DIRECT", g.Get())
	assert.Equal(t, []string{"DIRECT", "proxy-a"}, g.All())
}

func TestGetGroupUnknown(t *testing.T) {
	r := NewRuntime()
	_, ok := r.GetGroup("missing")
	assert.False(t, ok)
}

func TestGroupSetIsVisibleAcrossHandles(t *testing.T) {
	r := NewRuntime()
	r.RegisterGroup("main", []string{"DIRECT"})

	g, _ := r.GetGroup("main")
	g.Set("proxy-a")

	g2, _ := r.GetGroup("main")
	assert.Equal(t, "proxy-a", g2.Get())
}

func TestGroupsListsAllRegistered(t *testing.T) {
	r := NewRuntime()
	r.RegisterGroup("main", []string{"DIRECT"})
	r.RegisterGroup("backup", []string{"DIRECT"})

	names := map[string]bool{}
	for _, g := range r.Groups() {
		names[g.Name()] = true
	}
	assert.True(t, names["main"])
	assert.True(t, names["backup"])
}

func TestGroupConcurrentSetAndGet(t *testing.T) {
	g := &Group{name: "main"}
	g.Set("DIRECT")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			g.Set("proxy-a")
		}()
		go func() {
			defer wg.Done()
			_ = g.Get()
		}()
	}
	wg.Wait()
}
