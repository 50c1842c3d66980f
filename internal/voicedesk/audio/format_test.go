package audio

import (
	"bytes"
	"testing"
	"time"
)

func TestDefaultFormat(t *testing.T) {
	f := DefaultFormat()

	if f.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", f.SampleRate)
	}
	if f.FrameSize() != 2 {
		t.Errorf("FrameSize() = %d, want 2", f.FrameSize())
	}
	if f.BitDepth() != 16 {
		t.Errorf("BitDepth() = %d, want 16", f.BitDepth())
	}
	if f.BytesPerSecond() != 88200 {
		t.Errorf("BytesPerSecond() = %d, want 88200", f.BytesPerSecond())
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestFormat_Validate(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"default", DefaultFormat(), false},
		{"stereo", Format{SampleRate: 48000, Channels: 2, SampleWidth: 2}, false},
		{"zero rate", Format{SampleRate: 0, Channels: 1, SampleWidth: 2}, true},
		{"no channels", Format{SampleRate: 44100, Channels: 0, SampleWidth: 2}, true},
		{"24 bit", Format{SampleRate: 44100, Channels: 1, SampleWidth: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTake_AppendCopiesAndKeepsOrder(t *testing.T) {
	take := NewTake(DefaultFormat())

	chunk := []byte{1, 2, 3, 4}
	take.Append(chunk)
	chunk[0] = 99
	take.Append([]byte{5, 6})

	if take.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", take.Len())
	}
	if take.Size() != 6 {
		t.Errorf("Size() = %d, want 6", take.Size())
	}
	if got := take.Bytes(); !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("Bytes() = %v, want [1 2 3 4 5 6]", got)
	}
}

func TestTake_Duration(t *testing.T) {
	take := NewTake(DefaultFormat())
	take.Append(make([]byte, 88200))

	if take.Duration() != time.Second {
		t.Errorf("Duration() = %v, want 1s", take.Duration())
	}

	if NewTake(Format{}).Duration() != 0 {
		t.Error("Duration() of empty format should be 0")
	}
}

func TestFilterInputDevices(t *testing.T) {
	all := []DeviceInfo{
		{ID: 0, Name: "Built-in Microphone", InputChannels: 1},
		{ID: 1, Name: "Built-in Output", InputChannels: 0},
		{ID: 2, Name: "USB Headset", InputChannels: 2},
	}

	got := FilterInputDevices(all)
	if len(got) != 2 {
		t.Fatalf("FilterInputDevices() returned %d devices, want 2", len(got))
	}
	for _, d := range got {
		if d.InputChannels < 1 {
			t.Errorf("device %q without input channels returned", d.Name)
		}
	}
	if got[0].ID != 0 || got[1].ID != 2 {
		t.Errorf("IDs = %d,%d, want 0,2", got[0].ID, got[1].ID)
	}

	if FilterInputDevices(nil) != nil {
		t.Error("FilterInputDevices(nil) should return nil")
	}
}
