// Package autorun runs the startup self-test when imported for its side
// effect:
//
//	import _ "github.com/oqssafe/oqs-safe-go/pkg/oqssafe/selftest/autorun"
//
// The self-test uses oqssafe.Default and runs on its own goroutine, so it
// neither delays nor prevents startup. Its outcome is discarded.
package autorun

import (
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/kem"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/selftest"
	"github.com/oqssafe/oqs-safe-go/pkg/oqssafe/sig"
)

// done is closed when the background self-test has returned.
var done = make(chan struct{})

func init() {
	go func() {
		defer close(done)
		lib, err := oqssafe.Default()
		if err != nil {
			return
		}
		selftest.Run(kem.NewKyber768(lib), sig.NewDilithium2(lib), lib.Logger())
	}()
}
