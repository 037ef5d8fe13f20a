package warnings

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flatcar/nebraska-sub000/pkg/constants"
)

// TestSetWarningWriterRestoresAndCaptures tests the behavior of SetWarningWriter.
//
// It verifies:
//   - Original writer is restored after calling restore function
//   - Warning messages are captured by the new writer
//   - nil writer defaults to os.Stderr
func TestSetWarningWriterRestoresAndCaptures(t *testing.T) {
	original := WarningWriter()

	var buf bytes.Buffer
	restore := SetWarningWriter(&buf)
	assert.Equal(t, &buf, WarningWriter())
	Warnf("group %q has no samples\n", "beta")
	restore()

	assert.Equal(t, original, WarningWriter())
	assert.Equal(t, "group \"beta\" has no samples\n", buf.String())

	restore = SetWarningWriter(nil)
	assert.Equal(t, os.Stderr, WarningWriter())
	restore()
	assert.Equal(t, original, WarningWriter())
}

// TestPrint tests the behavior of Print.
//
// It verifies:
//   - Each message gets its own icon-prefixed line
//   - An empty slice writes nothing
func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	restore := SetWarningWriter(&buf)
	defer restore()

	Print(nil)
	assert.Empty(t, buf.String())

	Print([]string{"first", "second"})
	assert.Equal(t, constants.IconWarning+" first\n"+constants.IconWarning+" second\n", buf.String())
}
