// Package hsv classifies scan cells by color using two OpenCV HSV bands.
package hsv

import "fmt"

// Color is an OpenCV HSV triple (H in [0,179], S and V in [0,255])
type Color struct {
	H int `yaml:"h"`
	S int `yaml:"s"`
	V int `yaml:"v"`
}

// Band is an inclusive HSV range
type Band struct {
	Name  string `yaml:"name"`
	Lower Color  `yaml:"lower"`
	Upper Color  `yaml:"upper"`
}

// Profile describes what counts as a matching pixel and how the mask is denoised
type Profile struct {
	Name       string `yaml:"name"`
	Bands      []Band `yaml:"bands"`
	KernelSize int    `yaml:"kernel_size"`
}

// DefaultProfile returns the built-in green target profile: a broad standard
// band OR-ed with a narrower bright band, denoised with a 3x3 kernel.
func DefaultProfile() Profile {
	return Profile{
		Name: "green",
		Bands: []Band{
			{Name: "standard", Lower: Color{H: 35, S: 40, V: 40}, Upper: Color{H: 85, S: 255, V: 255}},
			{Name: "bright", Lower: Color{H: 40, S: 100, V: 150}, Upper: Color{H: 80, S: 255, V: 255}},
		},
		KernelSize: 3,
	}
}

// Validate checks band bounds and kernel size
func (p Profile) Validate() error {
	if len(p.Bands) == 0 {
		return fmt.Errorf("profile %q: at least one band is required", p.Name)
	}
	if p.KernelSize < 1 {
		return fmt.Errorf("profile %q: kernel_size must be >= 1, got %d", p.Name, p.KernelSize)
	}
	for i, b := range p.Bands {
		for _, c := range []Color{b.Lower, b.Upper} {
			if c.H < 0 || c.H > 179 || c.S < 0 || c.S > 255 || c.V < 0 || c.V > 255 {
				return fmt.Errorf("profile %q band %d (%s): color %+v out of HSV range", p.Name, i+1, b.Name, c)
			}
		}
		if b.Lower.H > b.Upper.H || b.Lower.S > b.Upper.S || b.Lower.V > b.Upper.V {
			return fmt.Errorf("profile %q band %d (%s): lower bound exceeds upper bound", p.Name, i+1, b.Name)
		}
	}
	return nil
}
