package palette

import (
	"image/color"
	"sort"
)

// Legend names
const (
	NameElevation     = "elevation"
	NameTemperature   = "temperature"
	NamePrecipitation = "precipitation"
	NameWater         = "water"
	NameResource      = "resource"
	NameBiome         = "biome"
	NamePopulation    = "population"
)

func rgb(r, g, b uint8, v int) Entry {
	return Entry{Color: color.RGBA{r, g, b, 0xff}, Value: v}
}

// Elevation is the topographic legend, in feet.
func Elevation() Palette {
	return mustNew(NameElevation,
		rgb(127, 255, 255, 0),
		rgb(255, 227, 227, 25),
		rgb(255, 209, 209, 50),
		rgb(255, 182, 182, 75),
		rgb(255, 155, 155, 100),
		rgb(255, 136, 136, 150),
		rgb(255, 118, 118, 200),
		rgb(255, 91, 91, 250),
		rgb(255, 72, 72, 300),
		rgb(255, 45, 45, 350),
		rgb(255, 18, 18, 400),
		rgb(255, 0, 0, 450),
		rgb(237, 0, 0, 500),
		rgb(208, 0, 0, 600),
		rgb(179, 0, 0, 700),
		rgb(151, 0, 0, 800),
		rgb(130, 5, 0, 900),
		rgb(145, 34, 0, 1100),
		rgb(159, 63, 0, 1200),
		rgb(177, 98, 0, 1400),
		rgb(191, 127, 0, 1600),
		rgb(205, 156, 0, 1800),
		rgb(220, 185, 0, 2000),
		rgb(234, 214, 0, 2200),
		rgb(249, 243, 0, 2400),
		rgb(223, 244, 0, 2600),
		rgb(170, 226, 0, 2800),
		rgb(106, 205, 0, 3100),
		rgb(53, 187, 0, 3400),
		rgb(0, 170, 0, 3800),
		rgb(0, 131, 45, 4200),
		rgb(0, 92, 90, 4600),
		rgb(0, 54, 136, 5000),
		rgb(0, 15, 181, 5400),
		rgb(15, 0, 190, 5800),
		rgb(46, 0, 171, 6200),
		rgb(72, 0, 156, 6600),
		rgb(98, 0, 140, 7200),
		rgb(125, 0, 125, 7800),
		rgb(140, 30, 140, 8600),
		rgb(155, 60, 155, 9400),
		rgb(171, 91, 171, 10200),
		rgb(173, 95, 173, 11000),
		rgb(175, 98, 174, 11800),
		rgb(177, 101, 176, 12600),
		rgb(180, 105, 178, 13400),
		rgb(180, 108, 179, 14200),
	)
}

// Temperature is the average yearly temperature legend, in Fahrenheit.
func Temperature() Palette {
	return mustNew(NameTemperature,
		rgb(5, 51, 106, 20),
		rgb(0, 74, 133, 24),
		rgb(40, 97, 160, 28),
		rgb(29, 127, 187, 31),
		rgb(8, 155, 214, 35),
		rgb(95, 181, 222, 39),
		rgb(172, 203, 228, 42),
		rgb(214, 227, 239, 46),
		rgb(255, 255, 255, 50),
		rgb(255, 219, 146, 54),
		rgb(252, 187, 109, 58),
		rgb(255, 133, 93, 61),
		rgb(237, 96, 76, 65),
		rgb(216, 57, 56, 69),
		rgb(184, 26, 67, 72),
		rgb(135, 27, 65, 76),
		rgb(106, 2, 44, 80),
	)
}

// Precipitation is the yearly precipitation legend, in inches.
func Precipitation() Palette {
	return mustNew(NamePrecipitation,
		rgb(229, 235, 223, 0),
		rgb(235, 247, 229, 5),
		rgb(223, 243, 218, 10),
		rgb(214, 239, 208, 15),
		rgb(204, 235, 197, 20),
		rgb(186, 228, 189, 25),
		rgb(168, 221, 181, 30),
		rgb(145, 212, 188, 35),
		rgb(122, 203, 196, 40),
		rgb(99, 191, 204, 45),
		rgb(79, 179, 211, 50),
		rgb(60, 159, 200, 55),
		rgb(43, 140, 190, 60),
		rgb(26, 122, 181, 65),
		rgb(9, 105, 173, 70),
		rgb(8, 85, 151, 75),
		rgb(8, 66, 131, 80),
	)
}

// Water is the trade usefulness of water.
func Water() Palette {
	return mustNew(NameWater,
		rgb(0, 0, 0, 0),     // none
		rgb(0, 238, 255, 1), // low trade
		rgb(0, 192, 255, 2), // medium trade
		rgb(0, 158, 255, 3), // high trade
	)
}

// Resource is the distribution of industrial and precious resources.
func Resource() Palette {
	return mustNew(NameResource,
		rgb(255, 255, 255, 0), // nothing
		rgb(138, 138, 138, 1), // low coal
		rgb(92, 92, 92, 2),    // medium coal
		rgb(51, 51, 51, 3),    // best coal
		rgb(168, 156, 103, 4), // iron
		rgb(238, 237, 0, 5),   // gold
	)
}

// Biome is the biome category legend.
func Biome() Palette {
	return mustNew(NameBiome,
		rgb(0, 0, 0, 0),       // ocean
		rgb(121, 165, 88, 1),  // conifer forest
		rgb(130, 186, 147, 2), // deciduous forest
		rgb(176, 205, 175, 3), // grassland
		rgb(177, 207, 153, 4), // marshland
		rgb(255, 230, 193, 5), // desert
		rgb(231, 219, 161, 6), // shrubland
		rgb(11, 139, 73, 7),   // tropical forest
	)
}

// Population is the population density legend, in people per square mile.
// Each map cell covers about nine square miles. Values strictly increase so
// the legend doubles as the bucket table for Bucketizer.
func Population() Palette {
	return mustNew(NamePopulation,
		rgb(0, 0, 0, 0),
		rgb(0, 255, 98, 10),
		rgb(53, 244, 0, 100),
		rgb(168, 244, 0, 500),
		rgb(219, 244, 0, 1000),
		rgb(244, 237, 0, 2500),
		rgb(244, 211, 0, 5000),
		rgb(244, 179, 0, 7500),
		rgb(244, 134, 0, 10000),
		rgb(255, 100, 0, 15000),
		rgb(255, 70, 0, 20000),
		rgb(255, 43, 0, 25000),
		rgb(255, 54, 50, 30000),
		rgb(255, 123, 119, 40000),
		rgb(255, 184, 183, 50000),
		rgb(255, 255, 255, 60000),
	)
}

var legends = map[string]func() Palette{
	NameElevation:     Elevation,
	NameTemperature:   Temperature,
	NamePrecipitation: Precipitation,
	NameWater:         Water,
	NameResource:      Resource,
	NameBiome:         Biome,
	NamePopulation:    Population,
}

// ByName returns the built-in legend with the given name.
func ByName(name string) (Palette, bool) {
	f, ok := legends[name]
	if !ok {
		return Palette{}, false
	}
	return f(), true
}

// Names returns the built-in legend names, sorted.
func Names() []string {
	names := make([]string, 0, len(legends))
	for n := range legends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
