package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("COMMUNITYHUB_TEST_MODE") == "" {
			_ = os.Setenv("COMMUNITYHUB_TEST_MODE", "1")
		}
	})
}
