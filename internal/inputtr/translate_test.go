package inputtr

import (
	"bytes"
	"testing"

	"golang.org/x/text/transform"

	"github.com/rbrown/conlog/internal/focusstate"
)

func TestEmitFunctionKey_ArrowWithShift(t *testing.T) {
	seq, ok := EmitFunctionKey(VKUp, Modifiers{Shift: true})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := []byte("\x1b[1;2A"); !bytes.Equal(seq, want) {
		t.Errorf("got %q, want %q", seq, want)
	}
}

func TestEmitFunctionKey_ArrowUnmodified(t *testing.T) {
	seq, ok := EmitFunctionKey(VKDown, Modifiers{})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := []byte("\x1b[B"); !bytes.Equal(seq, want) {
		t.Errorf("got %q, want %q", seq, want)
	}
}

func TestEmitFunctionKey_F3Unmodified(t *testing.T) {
	seq, ok := EmitFunctionKey(VKF3, Modifiers{})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := []byte("\x1bOR"); !bytes.Equal(seq, want) {
		t.Errorf("got %q, want %q", seq, want)
	}
}

func TestEmitFunctionKey_CtrlF3(t *testing.T) {
	seq, ok := EmitFunctionKey(VKF3, Modifiers{Ctrl: true})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := []byte("\x1b[1;5R"); !bytes.Equal(seq, want) {
		t.Errorf("got %q, want %q", seq, want)
	}
}

func TestEmitFunctionKey_EditingKeysAlwaysCarryBaseParam(t *testing.T) {
	cases := []struct {
		vk   VirtualKey
		want string
	}{
		{VKHome, "\x1b[1~"},
		{VKInsert, "\x1b[2~"},
		{VKDelete, "\x1b[3~"},
		{VKEnd, "\x1b[4~"},
		{VKPrior, "\x1b[5~"},
		{VKNext, "\x1b[6~"},
		{VKF5, "\x1b[15~"},
		{VKF12, "\x1b[24~"},
	}
	for _, c := range cases {
		seq, ok := EmitFunctionKey(c.vk, Modifiers{})
		if !ok {
			t.Fatalf("vk %v: expected ok=true", c.vk)
		}
		if string(seq) != c.want {
			t.Errorf("vk %v: got %q, want %q", c.vk, seq, c.want)
		}
	}
}

func TestEmitFunctionKey_EditingKeyWithModifierAppendsCode(t *testing.T) {
	seq, ok := EmitFunctionKey(VKDelete, Modifiers{Ctrl: true})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := "\x1b[3;5~"; string(seq) != want {
		t.Errorf("got %q, want %q", seq, want)
	}
}

func TestEmitFunctionKey_EscUnmodifiedHasNoParams(t *testing.T) {
	seq, ok := EmitFunctionKey(VKEscape, Modifiers{})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := "\x1b[P"; string(seq) != want {
		t.Errorf("got %q, want %q", seq, want)
	}
}

func TestEmitFunctionKey_EscWithShiftCarriesParams(t *testing.T) {
	seq, ok := EmitFunctionKey(VKEscape, Modifiers{Shift: true})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := "\x1b[1;2P"; string(seq) != want {
		t.Errorf("got %q, want %q", seq, want)
	}
}

func TestEmitFunctionKey_EscWithCtrlOnlyHasNoParams(t *testing.T) {
	seq, ok := EmitFunctionKey(VKEscape, Modifiers{Ctrl: true})
	if !ok {
		t.Fatal("expected ok=true")
	}
	if want := "\x1b[P"; string(seq) != want {
		t.Errorf("got %q, want %q", seq, want)
	}
}

func TestEmitFunctionKey_UnknownKeyIsNotOk(t *testing.T) {
	if _, ok := EmitFunctionKey(VirtualKey(0xffff), Modifiers{}); ok {
		t.Error("expected ok=false for unmapped virtual key")
	}
}

func TestCursorReport_OneIndexed(t *testing.T) {
	got := CursorReport(4, 11)
	if want := "\x1b[5;12R"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFocusEvent(t *testing.T) {
	if got := string(FocusEvent(true)); got != "\x1b[I" {
		t.Errorf("gained: got %q", got)
	}
	if got := string(FocusEvent(false)); got != "\x1b[O" {
		t.Errorf("lost: got %q", got)
	}
}

func TestFocusTransition_CycleWhileReporting(t *testing.T) {
	st := &focusstate.State{}
	st.SetReportFocus(true)
	st.SetHasFocus(true)
	st.SetAppFocus(true)

	if got := FocusTransition(st, false); string(got) != "\x1b[O" {
		t.Errorf("lose focus: got %q, want ESC[O", got)
	}
	if got := FocusTransition(st, true); string(got) != "\x1b[I" {
		t.Errorf("regain focus: got %q, want ESC[I", got)
	}
}

func TestFocusTransition_SilentWhenReportingDisabled(t *testing.T) {
	st := &focusstate.State{}
	st.SetHasFocus(true)

	if got := FocusTransition(st, false); got != nil {
		t.Errorf("got %q, want no bytes with reporting off", got)
	}
	if st.HasFocus() {
		t.Error("HasFocus should still track the host state even with reporting off")
	}
}

func TestFocusTransition_SameStateEmitsNothing(t *testing.T) {
	st := &focusstate.State{}
	st.SetReportFocus(true)
	st.SetHasFocus(true)
	st.SetAppFocus(true)

	if got := FocusTransition(st, true); got != nil {
		t.Errorf("got %q, want no bytes for a no-op transition", got)
	}
}

func TestFocusTransition_ResyncAfterEnableMismatch(t *testing.T) {
	// The scanner's focus-enable handling sets AppFocus to the negation
	// of HasFocus so that the resync request forces one event; replaying
	// the current state through FocusTransition must emit exactly once.
	st := &focusstate.State{}
	st.SetHasFocus(true)
	st.SetReportFocus(true)
	st.SetAppFocus(false)

	if got := FocusTransition(st, st.HasFocus()); string(got) != "\x1b[I" {
		t.Errorf("resync: got %q, want ESC[I", got)
	}
	if got := FocusTransition(st, st.HasFocus()); got != nil {
		t.Errorf("second resync: got %q, want nothing", got)
	}
}

func TestTranscodeChar_CtrlSpaceIsNUL(t *testing.T) {
	var dec SurrogateDecoder
	got := TranscodeChar(&dec, ' ', true)
	if !bytes.Equal(got, []byte{0}) {
		t.Errorf("got %v, want NUL", got)
	}
}

func TestTranscodeChar_PlainASCII(t *testing.T) {
	var dec SurrogateDecoder
	got := TranscodeChar(&dec, 'a', false)
	if !bytes.Equal(got, []byte("a")) {
		t.Errorf("got %q, want %q", got, "a")
	}
}

func TestSurrogateDecoder_SurrogatePair(t *testing.T) {
	var dec SurrogateDecoder
	// U+1F600 GRINNING FACE = surrogate pair D83D DE00.
	if got := TranscodeChar(&dec, 0xd83d, false); got != nil {
		t.Fatalf("expected no output after high surrogate, got %v", got)
	}
	got := TranscodeChar(&dec, 0xde00, false)
	want := []rune("\U0001F600")
	if string(got) != string(want) {
		t.Errorf("got %q, want %q", got, string(want))
	}
}

func TestSurrogateDecoder_Transform_ShortSrcWithoutEOF(t *testing.T) {
	var dec SurrogateDecoder
	var dst [4]byte
	nDst, nSrc, err := dec.Transform(dst[:], []byte{0x61}, false)
	if err != transform.ErrShortSrc || nDst != 0 || nSrc != 0 {
		t.Errorf("got (%d, %d, %v), want (0, 0, ErrShortSrc)", nDst, nSrc, err)
	}
}

// modifierCombos enumerates all 8 Shift/Alt/Ctrl combinations, matching the
// xterm modifier-code table (the zero combination and Alt alone carry no
// code at all).
var modifierCombos = []Modifiers{
	{},
	{Shift: true},
	{Alt: true},
	{Ctrl: true},
	{Shift: true, Alt: true},
	{Shift: true, Ctrl: true},
	{Alt: true, Ctrl: true},
	{Shift: true, Alt: true, Ctrl: true},
}

// wantSequence independently renders the expected escape sequence for vk
// under mods, straight from the xterm modifier-encoding rules, so this
// test catches divergence between EmitFunctionKey and the table rather than
// just re-deriving the same code path.
func wantSequence(t *testing.T, vk VirtualKey, mods Modifiers) string {
	t.Helper()

	code := 0
	switch {
	case mods.Shift && mods.Alt && mods.Ctrl:
		code = 8
	case mods.Alt && mods.Ctrl:
		code = 7
	case mods.Shift && mods.Ctrl:
		code = 6
	case mods.Ctrl:
		code = 5
	case mods.Shift && mods.Alt:
		code = 4
	case mods.Shift:
		code = 2
	}

	switch vk {
	case VKEscape:
		if mods.Shift {
			return "\x1b[1;" + itoa(code) + "P"
		}
		return "\x1b[P"
	case VKUp, VKDown, VKRight, VKLeft, VKClear:
		final := map[VirtualKey]byte{VKUp: 'A', VKDown: 'B', VKRight: 'C', VKLeft: 'D', VKClear: 'E'}[vk]
		if code != 0 {
			return "\x1b[1;" + itoa(code) + string(final)
		}
		return "\x1b[" + string(final)
	case VKF1, VKF2, VKF3, VKF4:
		final := map[VirtualKey]byte{VKF1: 'P', VKF2: 'Q', VKF3: 'R', VKF4: 'S'}[vk]
		if code != 0 {
			return "\x1b[1;" + itoa(code) + string(final)
		}
		return "\x1bO" + string(final)
	case VKHome, VKInsert, VKDelete, VKEnd, VKPrior, VKNext, VKF5, VKF6, VKF7, VKF8, VKF9, VKF10, VKF11, VKF12:
		base := map[VirtualKey]int{
			VKHome: 1, VKInsert: 2, VKDelete: 3, VKEnd: 4, VKPrior: 5, VKNext: 6,
			VKF5: 15, VKF6: 17, VKF7: 18, VKF8: 19, VKF9: 20, VKF10: 21, VKF11: 23, VKF12: 24,
		}[vk]
		if code != 0 {
			return "\x1b[" + itoa(base) + ";" + itoa(code) + "~"
		}
		return "\x1b[" + itoa(base) + "~"
	}
	t.Fatalf("wantSequence: no independent rule for vk %v", vk)
	return ""
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func TestEmitFunctionKey_EveryKeyEveryModifierCombo(t *testing.T) {
	for vk := range keyTable {
		for _, mods := range modifierCombos {
			got, ok := EmitFunctionKey(vk, mods)
			if !ok {
				t.Fatalf("vk %v mods %+v: expected ok=true", vk, mods)
			}
			want := wantSequence(t, vk, mods)
			if string(got) != want {
				t.Errorf("vk %v mods %+v: got %q, want %q", vk, mods, got, want)
			}
		}
	}
}
