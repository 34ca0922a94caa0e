package library

import "math/rand/v2"

// Palette is the fixed set of decorative tags a new series draws from.
var Palette = []string{
	"bg-red-400", "bg-blue-400", "bg-green-400",
	"bg-purple-400", "bg-pink-400", "bg-orange-400",
	"bg-yellow-400", "bg-teal-400",
}

func randomColor() string {
	return Palette[rand.IntN(len(Palette))]
}
