package hand

import (
	"strings"

	"github.com/oomph-ac/grasp/oerror"
)

// Hand is one of the two physical controller slots.
type Hand uint8

const (
	// None is used where no hand is bound.
	None Hand = iota
	Left
	Right
)

// All holds both controller slots in a fixed order, left first.
var All = [2]Hand{Left, Right}

// Valid returns true if h is Left or Right.
func (h Hand) Valid() bool {
	return h == Left || h == Right
}

// Other returns the opposite hand. None is returned for None.
func (h Hand) Other() Hand {
	switch h {
	case Left:
		return Right
	case Right:
		return Left
	}
	return None
}

// Index returns the slot index of the hand, 0 for Left and 1 for Right. It must not be called with None.
func (h Hand) Index() int {
	return int(h) - 1
}

func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// Button is an abstract controller button. The values match the OpenVR button ids so that SteamVR
// backends can use them directly.
type Button int16

const (
	ButtonNone      Button = -1
	ButtonSystem    Button = 0
	ButtonMenu      Button = 1
	ButtonGrip      Button = 2
	ButtonDPadLeft  Button = 3
	ButtonDPadUp    Button = 4
	ButtonDPadRight Button = 5
	ButtonDPadDown  Button = 6
	ButtonA         Button = 7
	ButtonTouchpad  Button = 32
	ButtonTrigger   Button = 33
)

var buttonNames = map[Button]string{
	ButtonNone:      "none",
	ButtonSystem:    "system",
	ButtonMenu:      "menu",
	ButtonGrip:      "grip",
	ButtonDPadLeft:  "dpad_left",
	ButtonDPadUp:    "dpad_up",
	ButtonDPadRight: "dpad_right",
	ButtonDPadDown:  "dpad_down",
	ButtonA:         "a",
	ButtonTouchpad:  "touchpad",
	ButtonTrigger:   "trigger",
}

// Mask returns the bit of the button in an OpenVR button mask. Zero is returned for ButtonNone.
func (b Button) Mask() uint64 {
	if b < 0 || b > 63 {
		return 0
	}
	return 1 << uint64(b)
}

func (b Button) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return "unknown"
}

// ParseButton parses a button name as used in scene and settings files. An empty string parses to ButtonNone.
func ParseButton(s string) (Button, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ButtonNone, nil
	}
	for b, name := range buttonNames {
		if name == s {
			return b, nil
		}
	}
	return ButtonNone, oerror.New("unknown button %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Button) UnmarshalText(text []byte) error {
	parsed, err := ParseButton(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
