package observable

import (
	"errors"
)

var ErrNilSubscribeFunc = errors.New("nil subscribe func supplied")
var ErrEmptyObservableName = errors.New("empty observable name supplied")
var ErrNilSequence = errors.New("nil sequence supplied")
