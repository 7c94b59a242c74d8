package logger

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// New builds the process logger. Verbose selects the human-readable
// development config, otherwise JSON production output is used so CI log
// collectors can parse it.
func New(verbose bool) (*zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log.Sugar(), nil
}

// Nop returns a logger that discards everything, for tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// RedactURL masks any credential embedded in a remote URL. The credential
// token must never reach a log sink, so every remote URL goes through here
// before being logged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
