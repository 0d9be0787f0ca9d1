package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseFilterEmptyAcceptsAnything(t *testing.T) {
	f := NewBaseFilter("")
	assert.True(t, f.Accept([]byte("ACGTN")))
	assert.True(t, f.Accept(nil))
}

func TestBaseFilterRestricts(t *testing.T) {
	f := NewBaseFilter("ACGT")
	assert.True(t, f.Accept([]byte("ACGT")))
	assert.False(t, f.Accept([]byte("ACGN")))
}

func TestBaseFilterNilReceiver(t *testing.T) {
	var f *BaseFilter
	assert.True(t, f.Accept([]byte("anything")))
}

func TestBaseFilterCaseSensitive(t *testing.T) {
	f := NewBaseFilter("ACGT")
	assert.False(t, f.Accept([]byte("acgt")))
}
