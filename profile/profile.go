// Package profile maps media categories to fixed conversion profiles.
package profile

// FitMode controls how an image is mapped onto the target box.
type FitMode string

const (
	// FitCover scales to fill both dimensions and crops the overflow.
	FitCover FitMode = "cover"
	// FitContain scales to fit within the box and letterboxes the remainder.
	FitContain FitMode = "contain"
	// FitFill stretches to the exact target, ignoring aspect ratio.
	FitFill FitMode = "fill"
	// FitInside scales so both dimensions are at most the target.
	FitInside FitMode = "inside"
	// FitOutside scales so both dimensions are at least the target.
	FitOutside FitMode = "outside"
)

// ConversionProfile is the immutable set of transcode parameters selected
// once per request by category.  Width/Height of 0 mean "keep native".
type ConversionProfile struct {
	Quality  int
	Width    int
	Height   int
	Fit      FitMode
	Lossless bool
}

// Categories recognised by Resolve.  Anything else falls back to general.
const (
	CategoryAvatar  = "avatar"
	CategoryEvent   = "event"
	CategoryPayment = "payment"
	CategoryQRCode  = "qrcode"
	CategoryGeneral = "general"
)

var presets = map[string]ConversionProfile{
	CategoryAvatar:  {Quality: 85, Width: 500, Height: 500, Fit: FitCover},
	CategoryEvent:   {Quality: 80, Width: 1200, Height: 800, Fit: FitInside},
	// Higher quality for payment screenshots.
	CategoryPayment: {Quality: 90, Width: 1000, Height: 1000, Fit: FitInside},
	// Lossless for QR codes: downstream scanning needs pixel-exact edges.
	CategoryQRCode:  {Quality: 95, Width: 800, Height: 800, Fit: FitInside, Lossless: true},
	CategoryGeneral: {Quality: 80, Fit: FitInside},
}

// Resolve returns the profile for category.  Unknown categories fall back to
// the general preset; resolution never fails.
func Resolve(category string) ConversionProfile {
	if p, ok := presets[category]; ok {
		return p
	}
	return presets[CategoryGeneral]
}

// Overrides carries optional per-request parameters.  Set fields take
// precedence field-by-field over the category preset.
type Overrides struct {
	Quality  *int
	Width    *int
	Height   *int
	Fit      *FitMode
	Lossless *bool
}

// Apply merges o onto p and returns the result.
func (o Overrides) Apply(p ConversionProfile) ConversionProfile {
	if o.Quality != nil {
		p.Quality = *o.Quality
	}
	if o.Width != nil {
		p.Width = *o.Width
	}
	if o.Height != nil {
		p.Height = *o.Height
	}
	if o.Fit != nil {
		p.Fit = *o.Fit
	}
	if o.Lossless != nil {
		p.Lossless = *o.Lossless
	}
	return p
}
