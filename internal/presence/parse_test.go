package presence

import "testing"

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"present", "$JYBSS,1, , , *", "1"},
		{"absent", "$JYBSS,0, , , *", "0"},
		{"minimal fields", "$JYBSS,1", "1"},
		{"foreign frame", "$DFHPD,0, , , *", ""},
		{"module banner", "leapMMW:/>", ""},
		{"empty line", "", ""},
		{"prefix only no second field", "$JYBSS,", ""},
		{"garbage token passes through", "$JYBSS,x, , , *", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFrame(tt.line); got != tt.want {
				t.Errorf("ParseFrame(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
