// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by UserDirectory.Create when a username or
// email is already taken. Directories must enforce uniqueness with an
// atomic check-and-insert; callers treat this as a first-class outcome,
// not a race to be papered over.
var ErrDuplicate = errors.New("duplicate")
