// Package testmocks provides utilities for working with mocks in tests
package testmocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// MockController is a convenience wrapper around gomock.Controller
type MockController struct {
	*gomock.Controller
}

// NewMockController creates a new mock controller that is finished when the
// test ends.
func NewMockController(t *testing.T) *MockController {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return &MockController{Controller: ctrl}
}
