package configfile

// Kit maps the 16 pad slots to MIDI note numbers, used to seed a fresh
// Config's Pad.Tone fields before any sample has been assigned.
type Kit struct {
	Name  string
	Notes [16]uint8
}

// Kits are the built-in tone maps a fresh config can be seeded from.
var Kits = map[string]Kit{
	"gm": {
		Name: "General MIDI",
		Notes: [16]uint8{
			36, 38, 42, 46, 41, 43, 45, 49,
			51, 39, 37, 56, 75, 70, 64, 63,
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: [16]uint8{
			36, 40, 42, 46, 45, 48, 50, 49,
			51, 39, 37, 56, 75, 70, 64, 63,
		},
	},
	"tr8s": {
		Name: "Roland TR-8S",
		Notes: [16]uint8{
			36, 38, 42, 46, 41, 43, 45, 49,
			51, 39, 37, 56, 75, 70, 62, 63,
		},
	},
	"er1": {
		Name: "Korg ER-1",
		Notes: [16]uint8{
			36, 38, 42, 46, 40, 41, 43, 49,
			45, 39, 37, 56, 75, 70, 64, 63,
		},
	},
}

// KitNames returns the available kit names in a stable order.
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// GetKit returns a kit by name, defaulting to "gm" if unknown.
func GetKit(name string) Kit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits["gm"]
}

// DefaultKit is the tone map DefaultConfig seeds fresh pads from.
const DefaultKit = "gm"
