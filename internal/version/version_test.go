package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFull(t *testing.T) {
	old := Version
	Version = "v1.2.0"
	defer func() { Version = old }()

	assert.Equal(t, "v1.2.0 (commit: unknown, built: unknown, "+runtime.Version()+")", Full())
	assert.Equal(t, "v1.2.0", GetInfo().Version)
	assert.Equal(t, runtime.Version(), GetInfo().GoVersion)
}
