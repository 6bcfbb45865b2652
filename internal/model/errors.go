package model

import "errors"

// Returned by repositories.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ErrNotOwner is returned when another instance serves the presentation.
var ErrNotOwner = errors.New("presentation is served by another instance")
