package autorun

import (
	"testing"
	"time"
)

func TestBackgroundSelftestReturns(t *testing.T) {
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("background self-test did not finish")
	}
}
