// Package errors provides custom error types for marketplace operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrItemNotFound = errors.New("item not found")
var ErrListingNotFound = errors.New("listing not found")

// Reference errors are raised when a payload points at an entity that does
// not exist. Unlike the *NotFound errors above they describe bad input, not
// an absent resource, and map to a client error response.
var ErrUnknownProduct = errors.New("referenced product does not exist")
var ErrUnknownItem = errors.New("referenced item does not exist")
