package memory_test

import (
	"testing"

	"github.com/phrazzld/scry-vocab/internal/platform/memory"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/phrazzld/scry-vocab/internal/store/storetest"
)

func TestUserStore(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) store.UserStore {
		return memory.NewUserStore()
	})
}
