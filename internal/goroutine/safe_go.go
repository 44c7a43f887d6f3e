package goroutine

import (
	"runtime/debug"

	"github.com/workmatch/workmatch-backend/internal/logger"
)

// SafeGo запускает горутину с обработкой panic.
// Паника логируется со стеком и не роняет процесс.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if logger.Log != nil {
					logger.Log.Errorf("panic в горутине: %v\n%s", r, debug.Stack())
				}
			}
		}()
		fn()
	}()
}
