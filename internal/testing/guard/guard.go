// Package guard switches the binaries into test mode when imported by a test,
// so packages that reach app.InTestMode never start servers or workers.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("PORTFOLIO_TEST_MODE") == "" {
			_ = os.Setenv("PORTFOLIO_TEST_MODE", "1")
		}
	})
}
