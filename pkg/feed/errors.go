package feed

import "github.com/pkg/errors"

var (
	ErrConnectionFailed = errors.New("feed: connection failed")
	ErrPingFailed       = errors.New("feed: ping failed")
	ErrNoTopics         = errors.New("feed: no topics configured")
	ErrNoBrokers        = errors.New("feed: no brokers configured")
	ErrInvalidInterval  = errors.New("feed: interval must be positive")
)
