package helpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	e1 := fmt.Errorf("bus write")
	e2 := fmt.Errorf("100%% broken")
	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	assert.Equal(t, e1, FoldErrors([]error{nil, e1}))
	assert.Equal(t, "bus write\n100% broken", FoldErrors([]error{e1, nil, e2}).Error())
}

func TestMustHex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte{0x98, 0x02, 0x20, 0x11}, MustHex("98022011"))
	assert.Panics(t, func() { MustHex("zz") })
}

func TestIntSecondDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 30*time.Second, IntSecondDefault(0, 30*time.Second))
	assert.Equal(t, 5*time.Second, IntSecondDefault(5, 30*time.Second))
}
