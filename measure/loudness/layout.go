package loudness

import (
	"fmt"
	"math"
	"strings"
)

// Channel identifies a loudspeaker position.
type Channel uint8

// Loudspeaker positions.
const (
	ChannelUnknown Channel = iota
	FL                     // front left
	FR                     // front right
	FC                     // front center
	LFE                    // low-frequency effects
	BL                     // back left
	BR                     // back right
	FLC                    // front left of center
	FRC                    // front right of center
	BC                     // back center
	SL                     // side left
	SR                     // side right
	TC                     // top center
	TFL                    // top front left
	TFC                    // top front center
	TFR                    // top front right
	TBL                    // top back left
	TBC                    // top back center
	TBR                    // top back right
	TSL                    // top side left
	TSR                    // top side right
	LFE2                   // second low-frequency effects
	channelCount
)

var channelNames = [channelCount]string{
	"?", "FL", "FR", "FC", "LFE", "BL", "BR", "FLC", "FRC", "BC", "SL", "SR",
	"TC", "TFL", "TFC", "TFR", "TBL", "TBC", "TBR", "TSL", "TSR", "LFE2",
}

func (c Channel) String() string {
	if c < channelCount {
		return channelNames[c]
	}

	return fmt.Sprintf("Channel(%d)", uint8(c))
}

// Weight returns the BS.1770 channel weight: 0 for LFE, 1.41 for surround
// positions behind or beside the listener, 1 otherwise.
func (c Channel) Weight() float64 {
	switch c {
	case LFE, LFE2:
		return 0
	case BL, BR, SL, SR, TBL, TBR, TSL, TSR:
		return surroundWeight
	default:
		return 1
	}
}

const (
	surroundWeight = 1.41

	// DefaultPanLaw is the dual-mono pan law in dB. It gives the single
	// channel a weight of 2, the energy of the same signal on both sides of a
	// stereo pair.
	DefaultPanLaw = -3.01029995663978
)

// Layout is the ordered channel map of an interleaved or planar stream.
type Layout []Channel

// Layout presets.
var (
	LayoutMono   = Layout{FC}
	LayoutStereo = Layout{FL, FR}
	Layout2_1    = Layout{FL, FR, LFE}
	Layout3_0    = Layout{FL, FR, FC}
	LayoutQuad   = Layout{FL, FR, BL, BR}
	Layout5_0    = Layout{FL, FR, FC, BL, BR}
	Layout5_1    = Layout{FL, FR, FC, LFE, BL, BR}
	Layout7_1    = Layout{FL, FR, FC, LFE, BL, BR, SL, SR}
)

// DefaultLayout returns the preset for a channel count.
func DefaultLayout(channels int) (Layout, error) {
	var l Layout

	switch channels {
	case 1:
		l = LayoutMono
	case 2:
		l = LayoutStereo
	case 3:
		l = Layout3_0
	case 4:
		l = LayoutQuad
	case 5:
		l = Layout5_0
	case 6:
		l = Layout5_1
	case 8:
		l = Layout7_1
	default:
		return nil, fmt.Errorf("%w: no default for %d channels", ErrUnknownLayout, channels)
	}

	return append(Layout(nil), l...), nil
}

func (l Layout) String() string {
	names := make([]string, len(l))
	for i, c := range l {
		names[i] = c.String()
	}

	return strings.Join(names, "+")
}

// Validate reports channels without a known position.
func (l Layout) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("%w: empty layout", ErrUnknownLayout)
	}

	for i, c := range l {
		if c == ChannelUnknown || c >= channelCount {
			return fmt.Errorf("%w: channel %d is %v", ErrUnknownLayout, i, c)
		}
	}

	return nil
}

// Weights returns the per-channel weights of l. With dualMono set and a
// single-channel layout, that channel is weighted by 10^(-panLawDB/10).
func (l Layout) Weights(dualMono bool, panLawDB float64) []float64 {
	w := make([]float64, len(l))
	for i, c := range l {
		w[i] = c.Weight()
	}

	if dualMono && len(l) == 1 {
		w[0] = math.Pow(10, -panLawDB/10)
	}

	return w
}
