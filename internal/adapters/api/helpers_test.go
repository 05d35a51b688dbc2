package api

import (
	"errors"
	"time"

	"github.com/stretchr/testify/mock"
)

var errDatabase = errors.New("database unavailable")

// anyTime matches any time.Time argument.
func anyTime() interface{} {
	return mock.MatchedBy(func(time.Time) bool { return true })
}

// mockTimeArg matches any time.Time argument and captures it into dst.
func mockTimeArg(dst *time.Time) interface{} {
	return mock.MatchedBy(func(t time.Time) bool {
		*dst = t
		return true
	})
}
