package screen

import (
	"fmt"

	"github.com/temoto/frontpanel/internal/types"
)

// Key packs (state, substate) as state|sub<<8.
// Both enums are uint8 so packed keys never exceed 16 bits.
type Key uint32

// UnknownKey is outside of packed range, reserved for fallback screen.
const UnknownKey Key = 1 << 16

func GetKey(state types.PrintEngineState, sub types.UISubState) Key {
	return Key(state) | Key(sub)<<8
}

func (k Key) State() types.PrintEngineState { return types.PrintEngineState(k & 0xff) }
func (k Key) SubState() types.UISubState { return types.UISubState((k >> 8) & 0xff) }

func (k Key) String() string {
	if k == UnknownKey {
		return "unknown"
	}
	return fmt.Sprintf("%s/%s", k.State().String(), k.SubState().String())
}
