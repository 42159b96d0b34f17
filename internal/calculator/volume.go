package calculator

import (
	"math"

	"StockTracker/internal/model"
)

// PriceBucket is one bin of a volume-by-price profile.
type PriceBucket struct {
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
	Volume float64 `json:"volume"`
}

// VolumeByPrice splits the close range into equal-width buckets and sums the
// volume traded at closes falling in each bucket.
func VolumeByPrice(bars []model.OHLCV, buckets int) []PriceBucket {
	if len(bars) == 0 || buckets <= 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range bars {
		lo = math.Min(lo, b.Close)
		hi = math.Max(hi, b.Close)
	}
	if hi == lo {
		return []PriceBucket{{Low: lo, High: hi, Volume: sumVolume(bars)}}
	}
	width := (hi - lo) / float64(buckets)
	out := make([]PriceBucket, buckets)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	for _, b := range bars {
		idx := int((b.Close - lo) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		out[idx].Volume += b.Volume
	}
	return out
}

// VolumeStats summarises traded volume.
type VolumeStats struct {
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// CalculateVolumeStats returns average, max and min volume.
func CalculateVolumeStats(bars []model.OHLCV) VolumeStats {
	if len(bars) == 0 {
		return VolumeStats{}
	}
	st := VolumeStats{Max: math.Inf(-1), Min: math.Inf(1)}
	for _, b := range bars {
		st.Max = math.Max(st.Max, b.Volume)
		st.Min = math.Min(st.Min, b.Volume)
	}
	st.Avg = sumVolume(bars) / float64(len(bars))
	return st
}

func sumVolume(bars []model.OHLCV) float64 {
	s := 0.0
	for _, b := range bars {
		s += b.Volume
	}
	return s
}
