package audio

// G.711 μ-law codec. Telephony media streams carry 8-bit μ-law samples at
// 8kHz; the speech model wants 16-bit linear PCM.

const (
	muLawBias = 0x84 // 132
	muLawClip = 32635
)

// DecodeMuLawToPCM16 converts G.711 μ-law (8-bit) to 16-bit signed PCM
// Input: μ-law encoded bytes (8-bit samples at 8kHz)
// Output: 16-bit signed little-endian PCM samples
func DecodeMuLawToPCM16(muLaw []byte) []byte {
	if len(muLaw) == 0 {
		return nil
	}

	result := make([]byte, len(muLaw)*2)
	for i, mu := range muLaw {
		sample := DecodeMuLawSample(mu)
		result[i*2] = byte(sample & 0xFF)
		result[i*2+1] = byte((sample >> 8) & 0xFF)
	}
	return result
}

// DecodeMuLawSample expands a single μ-law byte to a linear sample.
func DecodeMuLawSample(mu byte) int16 {
	// μ-law is transmitted with all bits inverted
	mu = ^mu

	sign := mu & 0x80
	exponent := (mu >> 4) & 0x07
	mantissa := mu & 0x0F

	sample := int16((int32(mantissa)<<3 + muLawBias) << exponent)
	sample -= muLawBias

	if sign != 0 {
		return -sample
	}
	return sample
}

// EncodePCM16ToMuLaw compresses 16-bit signed little-endian PCM into
// G.711 μ-law bytes.
func EncodePCM16ToMuLaw(pcm []byte) []byte {
	if len(pcm) < 2 {
		return nil
	}

	result := make([]byte, len(pcm)/2)
	for i := range result {
		sample := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		result[i] = EncodeMuLawSample(sample)
	}
	return result
}

// EncodeMuLawSample compresses a single linear sample to μ-law.
func EncodeMuLawSample(pcm int16) byte {
	sign := (pcm >> 8) & 0x80

	value := int32(pcm)
	if value < 0 {
		value = -value
	}
	if value > muLawClip {
		value = muLawClip
	}
	value += muLawBias

	// Position of the highest set bit determines the segment
	exponent := int32(7)
	for mask := int32(0x4000); value&mask == 0 && exponent > 0; mask >>= 1 {
		exponent--
	}

	mantissa := (value >> (exponent + 3)) & 0x0F

	return ^byte(int32(sign) | exponent<<4 | mantissa)
}
