package value

import "errors"

var (
	ErrWrongKind       = errors.New("wrong operand kind")
	ErrOverflow        = errors.New("integer overflow")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrKeyNotFound     = errors.New("key not found")
	ErrUnhashable      = errors.New("unhashable type")
	ErrInvalidArgument = errors.New("invalid argument")
)
