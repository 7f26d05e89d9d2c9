package store

import "github.com/vango-dev/hive/internal/errors"

// Sentinels for errors.Is on errors returned by a Store.
var (
	// ErrNotFound matches a missing setter, getter, action or module.
	ErrNotFound = errors.ErrNotFound

	// ErrInvalidArgument matches malformed queries, keys and open arguments.
	ErrInvalidArgument = errors.ErrInvalidArgument

	// ErrHostHook matches component hook failures passed to the error reporter.
	ErrHostHook = errors.ErrHostHook
)

// Error is the structured error type returned by a Store.
type Error = errors.HiveError
