package glyph

// builtinPaths are straight-segment practice shapes used when no glyph
// directory has been set up.
var builtinPaths = map[string]string{
	"corner":   "M0,0 V100 H100",
	"hook":     "M0,0 L100,0 L100,60 L70,100",
	"ladder":   "M0,0 V100 M60,0 V100 M0,30 H60 M0,70 H60",
	"line":     "M0,50 L100,50",
	"slash":    "M0,100 L100,0",
	"square":   "M0,0 L100,0 L100,100 L0,100 Z",
	"triangle": "M50,0 L100,100 L0,100 Z",
	"zigzag":   "M0,0 L25,100 L50,0 L75,100 L100,0",
}

// Builtin returns the built-in practice shapes.
func Builtin() *Set {
	return NewSet(builtinPaths)
}
