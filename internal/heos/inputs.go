package heos

import "strings"

// Input is a physical input a player can switch to with PlayInput.
type Input struct {
	Name string
	Path string
}

// CommonInputs lists the inputs found on most receivers with a built-in
// player, in display order.
var CommonInputs = []Input{
	{"HDMI 1", "inputs/hdmi_in_1"},
	{"HDMI 2", "inputs/hdmi_in_2"},
	{"HDMI 3", "inputs/hdmi_in_3"},
	{"HDMI 4", "inputs/hdmi_in_4"},
	{"HDMI 5", "inputs/hdmi_in_5"},
	{"HDMI 6", "inputs/hdmi_in_6"},
	{"TV Audio", "inputs/tv_audio"},
	{"Optical 1", "inputs/optical_in_1"},
	{"Optical 2", "inputs/optical_in_2"},
	{"Coax 1", "inputs/coaxial_in_1"},
	{"Aux 1", "inputs/aux_in_1"},
	{"Aux 2", "inputs/aux_in_2"},
	{"Bluetooth", "inputs/bluetooth"},
	{"Tuner", "inputs/tuner"},
	{"Phono", "inputs/phono"},
	{"CD", "inputs/cd"},
}

// ResolveInput accepts either a display name ("HDMI 1", case-insensitive)
// or an input path ("inputs/hdmi_in_1") and returns the path. Unknown
// values that already look like a path are passed through.
func ResolveInput(nameOrPath string) (string, bool) {
	s := strings.TrimSpace(nameOrPath)
	for _, in := range CommonInputs {
		if strings.EqualFold(in.Name, s) || in.Path == s {
			return in.Path, true
		}
	}
	if strings.HasPrefix(s, "inputs/") && len(s) > len("inputs/") {
		return s, true
	}
	return "", false
}
