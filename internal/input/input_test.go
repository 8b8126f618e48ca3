package input

import "testing"

type fakeJoypad struct {
	bit     uint8
	pressed bool
	face    bool
	calls   int
}

func (f *fakeJoypad) SetButton(bit uint8, pressed bool, face bool) {
	f.bit, f.pressed, f.face = bit, pressed, face
	f.calls++
}

func TestSetButtonStateFaceButtons(t *testing.T) {
	cases := []struct {
		b    Button
		bit  uint8
	}{
		{ButtonA, 0}, {ButtonB, 1}, {ButtonSelect, 2}, {ButtonStart, 3},
	}
	for _, c := range cases {
		joy := &fakeJoypad{}
		SetButtonState(joy, c.b, true)
		if !joy.face {
			t.Errorf("%v: expected face group", c.b)
		}
		if joy.bit != c.bit {
			t.Errorf("%v: bit = %d, want %d", c.b, joy.bit, c.bit)
		}
		if !joy.pressed {
			t.Errorf("%v: expected pressed=true", c.b)
		}
	}
}

func TestSetButtonStateDirectionButtons(t *testing.T) {
	cases := []struct {
		b   Button
		bit uint8
	}{
		{ButtonRight, 0}, {ButtonLeft, 1}, {ButtonUp, 2}, {ButtonDown, 3},
	}
	for _, c := range cases {
		joy := &fakeJoypad{}
		SetButtonState(joy, c.b, false)
		if joy.face {
			t.Errorf("%v: expected direction group", c.b)
		}
		if joy.bit != c.bit {
			t.Errorf("%v: bit = %d, want %d", c.b, joy.bit, c.bit)
		}
		if joy.pressed {
			t.Errorf("%v: expected pressed=false", c.b)
		}
	}
}
