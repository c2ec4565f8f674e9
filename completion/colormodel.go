package completion

import "github.com/rlch/texlsp"

// ColorModelProviderName names every built-in color model provider.
const ColorModelProviderName = "color-model"

// colorModels are the xcolor model names.
var colorModels = []Item{
	{Label: "gray", Detail: "gray level, real in [0,1]"},
	{Label: "Gray", Detail: "gray level, integer in [0,15]"},
	{Label: "rgb", Detail: "red, green, blue; reals in [0,1]"},
	{Label: "RGB", Detail: "red, green, blue; integers in [0,255]"},
	{Label: "HTML", Detail: "hexadecimal RRGGBB"},
	{Label: "cmy", Detail: "cyan, magenta, yellow; reals in [0,1]"},
	{Label: "cmyk", Detail: "cyan, magenta, yellow, black; reals in [0,1]"},
	{Label: "hsb", Detail: "hue, saturation, brightness; reals in [0,1]"},
	{Label: "Hsb", Detail: "hue in degrees [0,360], saturation, brightness"},
	{Label: "HSB", Detail: "hue, saturation, brightness; integers in [0,240]"},
	{Label: "tHsb", Detail: "tuned hue in degrees, saturation, brightness"},
	{Label: "wave", Detail: "wavelength in nanometers [363,814]"},
}

// colorModelTriggers lists where xcolor expects a model name.
var colorModelTriggers = []Trigger{
	{Command: `\definecolor`, Kind: texlsp.GroupBrace, Argument: 1},
	{Command: `\providecolor`, Kind: texlsp.GroupBrace, Argument: 1},
	{Command: `\definecolorset`, Kind: texlsp.GroupBrace, Argument: 0},
	{Command: `\providecolorset`, Kind: texlsp.GroupBrace, Argument: 0},
	{Command: `\colorlet`, Kind: texlsp.GroupBracket, Argument: 0},
	{Command: `\color`, Kind: texlsp.GroupBracket, Argument: 0},
	{Command: `\textcolor`, Kind: texlsp.GroupBracket, Argument: 0},
	{Command: `\pagecolor`, Kind: texlsp.GroupBracket, Argument: 0},
	{Command: `\colorbox`, Kind: texlsp.GroupBracket, Argument: 0},
	{Command: `\fcolorbox`, Kind: texlsp.GroupBracket, Argument: 0},
}

// ColorModels returns the color model vocabulary.
func ColorModels() []Item {
	items := make([]Item, len(colorModels))
	for i, m := range colorModels {
		m.Kind = ItemKindEnumMember
		items[i] = m
	}

	return items
}

// ColorModelProviders returns one LaTeX-only provider per xcolor command
// argument that takes a model name.
func ColorModelProviders() []Provider {
	generate := Static(ColorModels()...)
	latex := texlsp.NewLanguageSet(texlsp.LanguageLatex)

	providers := make([]Provider, 0, len(colorModelTriggers))
	for _, t := range colorModelTriggers {
		t.Languages = latex
		providers = append(providers, NewArgumentProvider(ColorModelProviderName, t, generate))
	}

	return providers
}
