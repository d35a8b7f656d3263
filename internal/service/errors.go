package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrForbiddenActor    = errors.New("actor may not perform this action")
	ErrUnauthorized      = errors.New("only staff may change order status")
	ErrNotFound          = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal transition of order status")
	ErrPersistence       = errors.New("order store failure")

	// ErrLoginRequired is the anonymous flavour of ErrForbiddenActor.
	ErrLoginRequired = fmt.Errorf("%w: login required", ErrForbiddenActor)
)
