package logging

import "testing"

func TestEnvIntKnobs(t *testing.T) {
	const key = "LOG_TEST_KNOB"

	cases := map[string]int{
		"":       16,
		"12":     12,
		"banana": 16,
		"-3":     16,
		"0":      16,
	}
	for value, want := range cases {
		t.Setenv(key, value)
		if got := envInt(key, 16); got != want {
			t.Errorf("envInt(%q) = %d, expected %d", value, got, want)
		}
	}
}
