package cryptobox

import "errors"

var (
	// ErrDecrypt indicates a blob that could not be verified or decoded.
	ErrDecrypt = errors.New("cannot decrypt blob")
	// ErrInvalidKey indicates key material of the wrong length.
	ErrInvalidKey = errors.New("invalid key material")
)
