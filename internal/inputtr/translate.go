package inputtr

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/rbrown/conlog/internal/focusstate"
)

// Modifiers is the set of held modifier keys relevant to key translation.
// Mouse and lock-key modifiers (CapsLock, NumLock) play no part here.
type Modifiers struct {
	Shift bool
	Alt   bool
	Ctrl  bool
}

// code returns the xterm modifier code for m, or 0 if no modifier is held
// or Alt is held on its own (Alt alone has no code in this table).
func (m Modifiers) code() int {
	switch {
	case m.Shift && m.Alt && m.Ctrl:
		return 8
	case m.Alt && m.Ctrl:
		return 7
	case m.Shift && m.Ctrl:
		return 6
	case m.Ctrl:
		return 5
	case m.Shift && m.Alt:
		return 4
	case m.Shift:
		return 2
	default:
		return 0
	}
}

// EmitFunctionKey renders the escape sequence for a non-character key
// press, looking vk up in the declarative key table. ok is false if vk is
// not one this translator has an opinion about (plain modifier keys,
// NumLock, etc.) and the caller should ignore the event.
func EmitFunctionKey(vk VirtualKey, mods Modifiers) (seq []byte, ok bool) {
	entry, ok := keyTable[vk]
	if !ok {
		return nil, false
	}

	introducer := entry.introducer
	var params []int

	switch entry.rule {
	case paramOnlyIfShift:
		if mods.Shift {
			params = []int{1, mods.code()}
		}
	case paramIfAnyModifier:
		if c := mods.code(); c != 0 {
			if entry.modifiedIntroducer != 0 {
				introducer = entry.modifiedIntroducer
			}
			params = []int{1, c}
		}
	case paramAlways:
		params = []int{entry.baseParam}
		if c := mods.code(); c != 0 {
			params = append(params, c)
		}
	}

	return buildSequence(introducer, entry.final, params), true
}

// buildSequence renders ESC + introducer + params joined by ';' + final.
func buildSequence(introducer, final byte, params []int) []byte {
	out := []byte{0x1b, introducer}
	for i, p := range params {
		if i > 0 {
			out = append(out, ';')
		}
		out = append(out, []byte(fmt.Sprintf("%d", p))...)
	}
	out = append(out, final)
	return out
}

// CursorReport renders the CSI response to a Device Status Report query,
// 1-indexed per the protocol (row/col are 0-indexed screen-buffer
// coordinates).
func CursorReport(row, col int) []byte {
	return []byte(fmt.Sprintf("\x1b[%d;%dR", row+1, col+1))
}

// FocusEvent renders CSI I (gained) or CSI O (lost).
func FocusEvent(gained bool) []byte {
	if gained {
		return []byte("\x1b[I")
	}
	return []byte("\x1b[O")
}

// FocusTransition records that the host console's focus state is now
// gained and returns the focus-event bytes owed to the child, or nil.
// Bytes are owed only while the child has reporting enabled and the
// state it was last told about disagrees with the new one, so repeated
// events for the same state stay silent. The same path serves both real
// focus events and the control channel's resync request (which passes
// the current HasFocus back in to force the comparison).
func FocusTransition(st *focusstate.State, gained bool) []byte {
	st.SetHasFocus(gained)
	if st.ReportFocus() && gained != st.AppFocus() {
		st.SetAppFocus(gained)
		return FocusEvent(gained)
	}
	return nil
}

// ctrlSpace is the NUL byte Ctrl+Space is special-cased to.
const ctrlSpace = 0x00

// TranscodeChar converts a single console key event's character payload
// into the bytes to send to the child: NUL for Ctrl+Space, otherwise the
// UTF-8 encoding of the UTF-16 code unit, fed through dec a code unit at
// a time so a surrogate pair split across two key events still decodes
// to one rune.
func TranscodeChar(dec *SurrogateDecoder, u16 uint16, ctrlHeld bool) []byte {
	if ctrlHeld && u16 == ' ' {
		return []byte{ctrlSpace}
	}

	var src [2]byte
	binary.LittleEndian.PutUint16(src[:], u16)
	var dst [utf8.UTFMax]byte
	n, _, err := dec.Transform(dst[:], src[:], false)
	if err != nil || n == 0 {
		return nil
	}
	return dst[:n]
}

// SurrogateDecoder reassembles a UTF-16 surrogate pair delivered as two
// separate console key events (one code unit per KEY_EVENT) into UTF-8,
// implementing transform.Transformer the same way
// golang.org/x/text/transform is used to decode a UTF-16 byte stream in
// the myssh tty reader this is grounded on — here each Transform call
// carries exactly one little-endian code unit instead of a streamed
// buffer, since key events arrive one at a time rather than as bytes.
type SurrogateDecoder struct {
	high rune
}

var _ transform.Transformer = (*SurrogateDecoder)(nil)

// Reset clears any pending unpaired high surrogate.
func (d *SurrogateDecoder) Reset() { d.high = 0 }

// Transform consumes exactly one little-endian UTF-16 code unit from src
// and, once a full rune is available (immediately for a BMP code point,
// or after the following low surrogate), writes its UTF-8 encoding to
// dst. While a high surrogate is pending its low half, it reports
// nSrc == 2 bytes consumed but nDst == 0 written.
func (d *SurrogateDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if len(src) < 2 {
		if atEOF {
			return 0, 0, nil
		}
		return 0, 0, transform.ErrShortSrc
	}

	c := rune(binary.LittleEndian.Uint16(src))
	if d.high != 0 {
		r := utf16.DecodeRune(d.high, c)
		d.high = 0
		if r == utf8.RuneError {
			return 0, 2, nil
		}
		c = r
	} else if utf16.IsSurrogate(c) {
		d.high = c
		return 0, 2, nil
	}

	if len(dst) < utf8.RuneLen(c) {
		return 0, 0, transform.ErrShortDst
	}
	return utf8.EncodeRune(dst, c), 2, nil
}
