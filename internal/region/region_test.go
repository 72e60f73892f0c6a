package region

import "testing"

func TestFrameRateForTimezone(t *testing.T) {
	tests := []struct {
		timezone string
		want     int
	}{
		// 25fps regions
		{"Europe/London", 25},
		{"Europe/Paris", 25},
		{"Europe/Berlin", 25},
		{"Australia/Sydney", 25},
		{"Asia/Shanghai", 25},
		{"Africa/Johannesburg", 25},

		// 30fps regions
		{"America/New_York", 30},
		{"America/Los_Angeles", 30},
		{"America/Chicago", 30},
		{"America/Toronto", 30},
		{"America/Mexico_City", 30},
		{"America/Bogota", 30},    // Colombia
		{"America/Sao_Paulo", 30}, // Brazil
		{"Asia/Tokyo", 30},        // Japan broadcasts NTSC despite split mains
		{"Asia/Seoul", 30},        // South Korea
		{"Asia/Taipei", 30},       // Taiwan
		{"Asia/Manila", 30},       // Philippines

		// Edge cases
		{"UTC", 25},
		{"GMT", 25},
		{"Etc/UTC", 25},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			got := FrameRateForTimezone(tt.timezone)
			if got != tt.want {
				t.Errorf("FrameRateForTimezone(%q) = %d, want %d", tt.timezone, got, tt.want)
			}
		})
	}
}

func TestDefaultFrameRate(t *testing.T) {
	// Just verify it returns a valid value without panicking
	fps := DefaultFrameRate()
	if fps != FrameRatePAL && fps != FrameRateNTSC {
		t.Errorf("DefaultFrameRate() = %d, want 25 or 30", fps)
	}
}
