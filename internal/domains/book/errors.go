package book

import "errors"

// ErrBookNotFound covers both a genuinely absent book and one owned by a
// different user. The two are deliberately indistinguishable so that a
// delete attempt cannot probe for other users' books.
var ErrBookNotFound = errors.New("book not found")
