// Package inputtr implements the Input Translator: it turns host console
// input records into the byte stream the child process expects on its
// stdin — UTF-8 text, xterm-style CSI/SS3 sequences for non-character
// keys, and the synthesized focus and cursor-position responses the
// Escape Scanner asks for over the control channel.
package inputtr

// VirtualKey mirrors the handful of Win32 VK_* codes this translator
// cares about. It is its own type (rather than windows.VK_*) so the key
// table and its tests have no dependency on golang.org/x/sys/windows and
// build on any platform; the Windows-specific input loop converts a raw
// console key event's virtual-key code to VirtualKey directly, since the
// underlying numeric values are identical.
type VirtualKey uint16

const (
	VKEscape VirtualKey = 0x1b
	VKPrior  VirtualKey = 0x21 // Page Up
	VKNext   VirtualKey = 0x22 // Page Down
	VKEnd    VirtualKey = 0x23
	VKHome   VirtualKey = 0x24
	VKLeft   VirtualKey = 0x25
	VKUp     VirtualKey = 0x26
	VKRight  VirtualKey = 0x27
	VKDown   VirtualKey = 0x28
	VKClear  VirtualKey = 0x0c
	VKInsert VirtualKey = 0x2d
	VKDelete VirtualKey = 0x2e
	VKF1     VirtualKey = 0x70
	VKF2     VirtualKey = 0x71
	VKF3     VirtualKey = 0x72
	VKF4     VirtualKey = 0x73
	VKF5     VirtualKey = 0x74
	VKF6     VirtualKey = 0x75
	VKF7     VirtualKey = 0x76
	VKF8     VirtualKey = 0x77
	VKF9     VirtualKey = 0x78
	VKF10    VirtualKey = 0x79
	VKF11    VirtualKey = 0x7a
	VKF12    VirtualKey = 0x7b
)

// paramRule says when the modifier code gets appended as an extra
// parameter for a given key.
type paramRule int

const (
	// paramOnlyIfShift: Esc's special case — no parameters at all unless
	// Shift is part of the combination, in which case a "1" and the
	// modifier code both appear.
	paramOnlyIfShift paramRule = iota
	// paramIfAnyModifier: no parameters when unmodified; a "1" and the
	// modifier code appear as soon as the modifier code is nonzero (Alt
	// alone has code 0 and so counts as unmodified). Used for the
	// arrow/clear keys and, with a modifiedIntroducer, for F1-F4.
	paramIfAnyModifier
	// paramAlways: the key already carries a base parameter whether or
	// not it's modified; the modifier code, if any, is appended alongside it.
	paramAlways
)

// keyEntry is one row of the declarative key → escape-sequence table.
type keyEntry struct {
	introducer         byte // '[' (CSI) or 'O' (SS3)
	modifiedIntroducer byte // if nonzero, replaces introducer when the modifier code is nonzero
	final              byte
	baseParam          int // 0 means "no base parameter"
	rule               paramRule
}

var keyTable = map[VirtualKey]keyEntry{
	VKEscape: {introducer: '[', final: 'P', rule: paramOnlyIfShift},

	VKUp:    {introducer: '[', final: 'A', rule: paramIfAnyModifier},
	VKDown:  {introducer: '[', final: 'B', rule: paramIfAnyModifier},
	VKRight: {introducer: '[', final: 'C', rule: paramIfAnyModifier},
	VKLeft:  {introducer: '[', final: 'D', rule: paramIfAnyModifier},
	VKClear: {introducer: '[', final: 'E', rule: paramIfAnyModifier},

	VKF1: {introducer: 'O', modifiedIntroducer: '[', final: 'P', rule: paramIfAnyModifier},
	VKF2: {introducer: 'O', modifiedIntroducer: '[', final: 'Q', rule: paramIfAnyModifier},
	VKF3: {introducer: 'O', modifiedIntroducer: '[', final: 'R', rule: paramIfAnyModifier},
	VKF4: {introducer: 'O', modifiedIntroducer: '[', final: 'S', rule: paramIfAnyModifier},

	VKHome:   {introducer: '[', final: '~', baseParam: 1, rule: paramAlways},
	VKInsert: {introducer: '[', final: '~', baseParam: 2, rule: paramAlways},
	VKDelete: {introducer: '[', final: '~', baseParam: 3, rule: paramAlways},
	VKEnd:    {introducer: '[', final: '~', baseParam: 4, rule: paramAlways},
	VKPrior:  {introducer: '[', final: '~', baseParam: 5, rule: paramAlways},
	VKNext:   {introducer: '[', final: '~', baseParam: 6, rule: paramAlways},

	VKF5:  {introducer: '[', final: '~', baseParam: 15, rule: paramAlways},
	VKF6:  {introducer: '[', final: '~', baseParam: 17, rule: paramAlways},
	VKF7:  {introducer: '[', final: '~', baseParam: 18, rule: paramAlways},
	VKF8:  {introducer: '[', final: '~', baseParam: 19, rule: paramAlways},
	VKF9:  {introducer: '[', final: '~', baseParam: 20, rule: paramAlways},
	VKF10: {introducer: '[', final: '~', baseParam: 21, rule: paramAlways},
	VKF11: {introducer: '[', final: '~', baseParam: 23, rule: paramAlways},
	VKF12: {introducer: '[', final: '~', baseParam: 24, rule: paramAlways},
}
