// Package logging is the logging facade used by oqssafe.
//
// The library never writes to the process log unless a Logger is supplied in
// oqssafe.Config. The default is Nop.
//
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
//	lib, err := oqssafe.Open(oqssafe.Config{
//	    Backend:     oqssafe.BackendAuto,
//	    Environment: oqssafe.EnvProduction,
//	    Logger:      logging.New(slog.New(handler)),
//	})
//
// # Levels
//
// Backend selection is logged at info, internal backend failures at warn and
// individual operations at debug.
//
// # Secret material
//
// Key bytes, shared secrets and signatures are never logged. Use Bytes to
// record the length of a buffer and Redacted to mark a field that was
// intentionally omitted:
//
//	logger.Debug(ctx, "encapsulated", logging.Bytes("ciphertext", ct), logging.Redacted("shared_secret"))
package logging
