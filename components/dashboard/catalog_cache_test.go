package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorCacheStoresEntry(t *testing.T) {
	cache := NewDescriptorCache(time.Minute)
	calls := 0
	load := func() ([]WidgetDescriptor, error) {
		calls++
		return []WidgetDescriptor{{Label: "plugin-a", MinWidth: 1, MinHeight: 1}}, nil
	}

	first, err := cache.GetOrLoad("remote", load)
	require.NoError(t, err)
	second, err := cache.GetOrLoad("remote", load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestDescriptorCacheExpires(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	cache := NewDescriptorCache(time.Minute)
	cache.now = func() time.Time { return now }
	calls := 0
	load := func() ([]WidgetDescriptor, error) {
		calls++
		return nil, nil
	}

	_, err := cache.GetOrLoad("remote", load)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrLoad("remote", load)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestDescriptorCacheSkipsFailures(t *testing.T) {
	cache := NewDescriptorCache(time.Minute)
	calls := 0
	_, err := cache.GetOrLoad("remote", func() ([]WidgetDescriptor, error) {
		calls++
		return nil, errors.New("unavailable")
	})
	require.Error(t, err)

	items, err := cache.GetOrLoad("remote", func() ([]WidgetDescriptor, error) {
		calls++
		return []WidgetDescriptor{{Label: "plugin-b"}}, nil
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, calls)
}

func TestDescriptorCacheReturnsCopies(t *testing.T) {
	cache := NewDescriptorCache(time.Minute)
	items, err := cache.GetOrLoad("remote", func() ([]WidgetDescriptor, error) {
		return []WidgetDescriptor{{Label: "plugin-c"}}, nil
	})
	require.NoError(t, err)
	items[0].Label = "mutated"

	again, err := cache.GetOrLoad("remote", nil)
	require.NoError(t, err)
	assert.Equal(t, "plugin-c", again[0].Label)
}
