package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestClamp(t *testing.T) {
	test.That(t, Clamp(-1, 0, 3), test.ShouldEqual, 0.)
	test.That(t, Clamp(1.5, 0, 3), test.ShouldEqual, 1.5)
	test.That(t, Clamp(4, 0, 3), test.ShouldEqual, 3.)
}
