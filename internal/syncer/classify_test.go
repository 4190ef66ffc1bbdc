package syncer

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		local     int64
		remote    int64
		watermark int64
		want      Action
	}{
		{"both edited after watermark", 5000, 6000, 1000, ActionConflict},
		{"same edit on both sides", 5000, 5000, 1000, ActionSkip},
		{"remote edited after watermark", 500, 6000, 1000, ActionPull},
		{"local edited after watermark", 5000, 500, 1000, ActionPush},
		{"neither edited, remote newer", 700, 900, 1000, ActionPull},
		{"neither edited, local newer", 900, 700, 1000, ActionPush},
		{"local exactly at watermark", 1000, 6000, 1000, ActionPull},
		{"never synced", 5000, 6000, 0, ActionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.local, tt.remote, tt.watermark); got != tt.want {
				t.Errorf("classify(%d, %d, %d) = %s, want %s", tt.local, tt.remote, tt.watermark, got, tt.want)
			}
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in      string
		want    Choice
		wantErr bool
	}{
		{"local", ChoiceLocal, false},
		{" Remote ", ChoiceRemote, false},
		{"none", ChoiceNone, false},
		{"", ChoiceNone, false},
		{"both", ChoiceNone, true},
	}
	for _, tt := range tests {
		got, err := ParseChoice(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChoice(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChoice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
