package domain

import "errors"

// Common domain errors
var (
	ErrRuleNotFound     = errors.New("link rule not found")
	ErrContentNotFound  = errors.New("content item not found")
	ErrEmptyKeyword     = errors.New("rule keyword is empty")
	ErrInvalidTargetURL = errors.New("rule target url is invalid")
	ErrNegativeLimit    = errors.New("rule link limit is negative")
	ErrInvalidPattern   = errors.New("keyword pattern failed to compile")
)
